// Package kafkafeed implements the quote feed over Kafka topics. Each
// subscription binds a data-source contract to a series and owns one reader
// on the contract's topic; history requests seek the reader to the resume
// offset and replay until the reader catches up with the topic head.
package kafkafeed

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/feed"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/errors"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// quoteMessage is the wire shape of one bar on a quote topic.
type quoteMessage struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Amount    float64 `json:"amount"`
}

type subscription struct {
	contract *market.DataSourceContract
	ser      *series.Series
	reader   *kafka.Reader
	cancel   context.CancelFunc
	active   bool
}

// Service implements feed.Service on Kafka.
type Service struct {
	cfg config.FeedKafkaConfig
	log logger.Interface

	finished chan feed.FinishedLoading

	mu   sync.Mutex
	subs map[string]*subscription

	refreshStop chan struct{}
}

// New creates a feed service. Name returns the id the coordinator registers
// it under.
func New(cfg config.FeedKafkaConfig, log logger.Interface) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		finished: make(chan feed.FinishedLoading, 16),
		subs:     make(map[string]*subscription),
	}
}

// Name returns the contract service id this feed serves.
func (s *Service) Name() string {
	return s.cfg.ServiceName
}

// Finished implements feed.Service.
func (s *Service) Finished() <-chan feed.FinishedLoading {
	return s.finished
}

// Subscribe binds contract to ser. Delivery starts with LoadHistory.
func (s *Service) Subscribe(_ context.Context, contract *market.DataSourceContract, ser *series.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := subKey(contract)
	if _, ok := s.subs[key]; ok {
		return errors.NewErrorDetails("contract already subscribed", string(errors.FeedSubscribeError), key)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  s.cfg.Brokers,
		Topic:    s.cfg.TopicPrefix + contract.SourceSymbol,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	s.subs[key] = &subscription{contract: contract, ser: ser, reader: reader}
	return nil
}

// Unsubscribe stops delivery and releases the reader.
func (s *Service) Unsubscribe(_ context.Context, contract *market.DataSourceContract) error {
	s.mu.Lock()
	sub, ok := s.subs[subKey(contract)]
	if ok {
		delete(s.subs, subKey(contract))
	}
	s.mu.Unlock()

	if !ok {
		return nil
	}
	if sub.cancel != nil {
		sub.cancel()
	}
	return sub.reader.Close()
}

// IsSubscribed implements feed.Service.
func (s *Service) IsSubscribed(contract *market.DataSourceContract) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.subs[subKey(contract)]
	return ok
}

// LoadHistory seeks the subscription's reader to the first message at or
// after from and starts delivery. The call returns once the request is
// issued; a FinishedLoading signal arrives on the Finished channel when the
// reader catches up with the topic head, after which delivery continues
// live.
func (s *Service) LoadHistory(ctx context.Context, contract *market.DataSourceContract, from time.Time) error {
	s.mu.Lock()
	sub, ok := s.subs[subKey(contract)]
	if !ok {
		s.mu.Unlock()
		return errors.NewErrorDetails("history requested without subscription", string(errors.FeedHistoryError), subKey(contract))
	}
	if sub.active {
		s.mu.Unlock()
		return nil
	}
	sub.active = true
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub.cancel = cancel
	s.mu.Unlock()

	go s.run(runCtx, sub, from)
	return nil
}

// run replays the topic from the seek point into the subscription's series
// and keeps streaming after catch-up.
func (s *Service) run(ctx context.Context, sub *subscription, from time.Time) {
	defer func() {
		s.mu.Lock()
		sub.active = false
		s.mu.Unlock()
	}()

	if from.IsZero() {
		if err := sub.reader.SetOffset(kafka.FirstOffset); err != nil {
			s.log.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "feed_seek"})
			return
		}
	} else if err := sub.reader.SetOffsetAt(ctx, from); err != nil {
		s.log.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "feed_seek"})
		return
	}

	var (
		caughtUp   bool
		loadedFrom time.Time
		loadedTo   time.Time
	)

	lag, err := sub.reader.ReadLag(ctx)
	if err == nil && lag <= s.cfg.CatchUpLag {
		caughtUp = true
		s.emitFinished(sub, loadedFrom, loadedTo)
	}

	for {
		msg, err := sub.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.log.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "feed_read"})
			}
			return
		}

		var qm quoteMessage
		if err := json.Unmarshal(msg.Value, &qm); err != nil {
			s.log.ErrorContext(ctx, err, logger.Field{Key: "action", Value: "feed_unmarshal"})
			continue
		}

		stamp := time.UnixMilli(qm.Timestamp).UTC()
		sub.ser.Upsert(&series.Quote{
			Timestamp: stamp,
			Open:      qm.Open,
			High:      qm.High,
			Low:       qm.Low,
			Close:     qm.Close,
			Volume:    qm.Volume,
			Amount:    qm.Amount,
		})

		if loadedFrom.IsZero() || stamp.Before(loadedFrom) {
			loadedFrom = stamp
		}
		if stamp.After(loadedTo) {
			loadedTo = stamp
		}

		if !caughtUp && sub.reader.Lag() <= s.cfg.CatchUpLag {
			caughtUp = true
			s.emitFinished(sub, loadedFrom, loadedTo)
		}
	}
}

func (s *Service) emitFinished(sub *subscription, from, to time.Time) {
	s.finished <- feed.FinishedLoading{
		Series: sub.ser,
		Symbol: sub.contract.SourceSymbol,
		From:   from,
		To:     to,
	}
}

// StartRefresh periodically restarts delivery for refreshable subscriptions
// whose run loop has died, resuming from the series' latest bar.
func (s *Service) StartRefresh(interval time.Duration) {
	s.mu.Lock()
	if s.refreshStop != nil {
		s.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	s.refreshStop = stop
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.refresh()
			}
		}
	}()
}

// StopRefresh implements feed.Service.
func (s *Service) StopRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshStop != nil {
		close(s.refreshStop)
		s.refreshStop = nil
	}
}

func (s *Service) refresh() {
	s.mu.Lock()
	var stale []*subscription
	for _, sub := range s.subs {
		if sub.contract.Refreshable && !sub.active {
			stale = append(stale, sub)
		}
	}
	s.mu.Unlock()

	for _, sub := range stale {
		from := time.Time{}
		if latest, ok := sub.ser.Latest(); ok {
			from = latest
		}
		if err := s.LoadHistory(context.Background(), sub.contract, from); err != nil {
			s.log.Error(err, logger.Field{Key: "action", Value: "feed_refresh"})
		}
	}
}

// Close stops refresh and releases all readers.
func (s *Service) Close() error {
	s.StopRefresh()

	s.mu.Lock()
	subs := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.subs = make(map[string]*subscription)
	s.mu.Unlock()

	var last error
	for _, sub := range subs {
		if sub.cancel != nil {
			sub.cancel()
		}
		if err := sub.reader.Close(); err != nil {
			last = err
		}
	}
	return last
}

func subKey(c *market.DataSourceContract) string {
	return c.SourceSymbol + "@" + c.Freq.String()
}
