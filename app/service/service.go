// Package service assembles the market-data cache process: persisted
// stores, event bus, tick consumer, history loader and snapshot flusher.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/bootstrap"
	"github.com/sanyaade-fintechnology/aiotrade/internal/consumer"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/redisbus"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/questdb"
)

// Service is the running market-data cache.
type Service struct {
	Bootstrap bootstrap.Bootstrap
	Consumer  *consumer.TickConsumer
	Config    config.Config

	logger logger.Interface
	bus    *redisbus.Bus
	db     questdb.Client
	wg     sync.WaitGroup
}

// Init wires the service from configuration.
func Init(ctx context.Context, cfg config.Config) (*Service, error) {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		return nil, err
	}

	db, err := questdb.NewClient(ctx, cfg.QuestDB)
	if err != nil {
		return nil, err
	}

	eventBus, err := redisbus.New(ctx, cfg.Redis, log)
	if err != nil {
		return nil, err
	}

	b, err := (&bootstrap.Bootstrap{}).Init(bootstrap.BootstrapConfig{
		QuestDB: db,
		Bus:     eventBus,
		Logger:  log,
		Config:  &cfg,
	})
	if err != nil {
		return nil, err
	}

	tickConsumer := consumer.NewTickConsumer(
		cfg.TickKafka,
		log,
		b.Repository.TickStore,
		b.Core.Hub,
		b.Core.Trackers,
	)

	return &Service{
		Bootstrap: b,
		Consumer:  tickConsumer,
		Config:    cfg,
		logger:    log,
		bus:       eventBus,
		db:        db,
	}, nil
}

// Run starts the flusher, the feed watchers and the tick consumer, then
// issues the initial history load for every configured instrument's default
// frequency. It returns once everything is started.
func (s *Service) Run(ctx context.Context) {
	core := s.Bootstrap.Core

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		core.Flusher.Run(ctx)
	}()

	core.Loader.Start(ctx)

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.Consumer.Start(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.Consumer.Subscribe(ctx)
	}()

	for _, symbol := range s.Config.Market.Symbols {
		reg, ok := core.Hub.For(symbol)
		if !ok {
			continue
		}
		f := reg.Instrument().DefaultFreq
		ser := reg.GetOrCreate(f)
		if ser == nil {
			continue
		}
		if err := core.Loader.LoadSeries(ctx, reg, f, ser); err != nil {
			s.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "symbol",
				Value: symbol,
			})
		}
	}

	core.Feed.StartRefresh(time.Minute)
}

// Shutdown stops the consumer and feed and releases connections.
func (s *Service) Shutdown(ctx context.Context) {
	core := s.Bootstrap.Core

	core.Feed.StopRefresh()
	if err := core.Feed.Close(); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "feed_close"})
	}
	if err := s.Consumer.Stop(); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "consumer_stop"})
	}
	if err := s.bus.Close(); err != nil {
		s.logger.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "bus_close"})
	}
	s.db.Close()
	_ = s.logger.Sync()
}

// Wait blocks until the consumer and flusher goroutines exit.
func (s *Service) Wait() {
	s.wg.Wait()
}
