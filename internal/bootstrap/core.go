package bootstrap

import (
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/kafkafeed"
	moneyflowInfra "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	quoteInfra "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	"github.com/sanyaade-fintechnology/aiotrade/internal/loader"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/internal/resample"
	"github.com/sanyaade-fintechnology/aiotrade/internal/snapshot"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/errors"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

// Core holds the in-memory cache components.
type Core struct {
	Universe *market.Universe
	Hub      *registry.Hub
	Engine   *resample.Engine
	Loader   *loader.Coordinator
	Feed     *kafkafeed.Service
	Trackers *snapshot.Set
	Flusher  *snapshot.Flusher

	QuoteQueue *snapshot.Queue[quoteInfra.BatchEntry]
	FlowQueue  *snapshot.Queue[moneyflowInfra.BatchEntry]
}

// registerCore builds the universe from configuration and wires the cache
// components over the registered repositories.
func (b *Bootstrap) registerCore() error {
	cfg := b.Config

	universe, err := buildUniverse(cfg)
	if err != nil {
		return err
	}

	engine := resample.NewEngine(b.Logger)
	hub := registry.NewHub(universe, engine, b.Logger)

	feedSvc := kafkafeed.New(cfg.FeedKafka, b.Logger)
	coord := loader.New(b.Repository.QuoteStore, b.Bus, b.Logger)
	coord.RegisterFeed(feedSvc.Name(), feedSvc)

	quoteQ := snapshot.NewQueue[quoteInfra.BatchEntry](cfg.Snapshot.FlushQueueSize)
	flowQ := snapshot.NewQueue[moneyflowInfra.BatchEntry](cfg.Snapshot.FlushQueueSize)

	trackers := snapshot.NewSet(
		b.Repository.QuoteStore,
		b.Repository.MoneyFlowStore,
		b.Repository.TickStore,
		b.Bus,
		quoteQ,
		flowQ,
		b.Logger,
	)

	interval, err := time.ParseDuration(cfg.Snapshot.FlushInterval)
	if err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.ConfigParseError), "SNAPSHOT_FLUSH_INTERVAL")
	}
	flusher := snapshot.NewFlusher(
		b.Repository.QuoteStore,
		b.Repository.MoneyFlowStore,
		quoteQ,
		flowQ,
		interval,
		cfg.Snapshot.FlushBatchSize,
		b.Logger,
	)

	b.Core = Core{
		Universe:   universe,
		Hub:        hub,
		Engine:     engine,
		Loader:     coord,
		Feed:       feedSvc,
		Trackers:   trackers,
		Flusher:    flusher,
		QuoteQueue: quoteQ,
		FlowQueue:  flowQ,
	}
	return nil
}

// buildUniverse creates one persisted instrument per configured symbol,
// each carrying a refreshable default-frequency contract on the feed
// service that also covers every known frequency.
func buildUniverse(cfg *config.Config) (*market.Universe, error) {
	exchange, err := market.NewExchange(cfg.Market.Exchange, cfg.Market.Timezone)
	if err != nil {
		return nil, err
	}
	defaultFreq, err := freq.Parse(cfg.Market.DefaultFreq)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.ConfigParseError), "MARKET_DEFAULT_FREQ")
	}

	universe := market.NewUniverse()
	for i, symbol := range cfg.Market.Symbols {
		universe.Add(&market.Instrument{
			ID:          int64(i + 1),
			Symbol:      symbol,
			Exchange:    exchange,
			DefaultFreq: defaultFreq,
			Contracts: []*market.DataSourceContract{
				{
					SourceSymbol:   symbol,
					Service:        cfg.FeedKafka.ServiceName,
					Freq:           defaultFreq,
					Refreshable:    true,
					SupportedFreqs: freq.All,
				},
			},
		})
	}
	return universe, nil
}
