// Package loader populates series with history through a two-phase
// protocol: bulk-read from the persisted store, then resume from the live
// feed at a cursor computed from the stored bars.
package loader

import (
	"context"
	"sync"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/feed"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/errors"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Coordinator drives history loads. Feeds announce load completion on their
// Finished channel; the coordinator fans those signals out to one-shot
// handlers keyed by series.
type Coordinator struct {
	quotes quote.Store
	events bus.Bus
	log    logger.Interface

	feeds map[string]feed.Service

	// pendingMu guards the one-shot completion handler table.
	pendingMu sync.Mutex
	pending   map[*series.Series]func(feed.FinishedLoading)

	// lockMu guards the per-instrument load lock table.
	lockMu    sync.Mutex
	loadLocks map[string]*sync.Mutex

	wg sync.WaitGroup
}

// New creates a coordinator. Feeds are attached with RegisterFeed before
// Start.
func New(quotes quote.Store, events bus.Bus, log logger.Interface) *Coordinator {
	return &Coordinator{
		quotes:    quotes,
		events:    events,
		log:       log,
		feeds:     make(map[string]feed.Service),
		pending:   make(map[*series.Series]func(feed.FinishedLoading)),
		loadLocks: make(map[string]*sync.Mutex),
	}
}

// RegisterFeed attaches a feed service under its contract service id.
func (c *Coordinator) RegisterFeed(id string, svc feed.Service) {
	c.feeds[id] = svc
}

// Start launches one watcher per registered feed. Watchers exit when ctx is
// done or the feed closes its Finished channel.
func (c *Coordinator) Start(ctx context.Context) {
	for id, svc := range c.feeds {
		c.wg.Add(1)
		go c.watch(ctx, id, svc)
	}
}

// Wait blocks until all watchers have exited.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

func (c *Coordinator) watch(ctx context.Context, id string, svc feed.Service) {
	defer c.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case fin, ok := <-svc.Finished():
			if !ok {
				return
			}
			c.dispatch(fin)
		}
	}
}

// dispatch fires the one-shot handler registered for the finished series.
// The handler is removed before it runs, so it fires at most once even if a
// feed repeats the signal.
func (c *Coordinator) dispatch(fin feed.FinishedLoading) {
	c.pendingMu.Lock()
	h, ok := c.pending[fin.Series]
	if ok {
		delete(c.pending, fin.Series)
	}
	c.pendingMu.Unlock()

	if ok {
		h(fin)
	}
}

// LoadSeries runs the two-phase load for ser under the owning instrument's
// load lock. Phase one bulk-reads persisted bars into the series; phase two
// subscribes the resolved contract's feed and requests history from the
// resume cursor. The call returns once the history request is issued;
// completion arrives later through the feed's Finished channel. A missing
// contract or unknown feed id completes the load benignly.
//
// Only quote series are loadable: phase one reads the quote store, so ser
// must be the registry's quote series for f. Money-flow history is rebuilt
// from ticks by the snapshot trackers, not loaded here.
func (c *Coordinator) LoadSeries(ctx context.Context, reg *registry.Registry, f freq.Frequency, ser *series.Series) error {
	inst := reg.Instrument()

	lock := c.loadLock(inst.Symbol)
	lock.Lock()
	defer lock.Unlock()

	cursor, err := c.loadPersisted(ctx, inst.Symbol, f, ser)
	if err != nil {
		return errors.TracerFromError(err)
	}

	contract, ok := reg.ResolveContract(f)
	if !ok {
		ser.MarkLoaded()
		return nil
	}
	svc, ok := c.feeds[contract.Service]
	if !ok {
		c.log.WarnContext(ctx, "no feed for contract service, completing load", logger.Field{
			Key:   "service",
			Value: contract.Service,
		})
		ser.MarkLoaded()
		return nil
	}

	// The feed delivers at second granularity for the realtime series and
	// at the target frequency otherwise.
	eff := contract
	if reg.IsRealtime(ser) && contract.Freq != freq.OneSecond {
		eff = contract.CloneFor(freq.OneSecond)
	}

	if err := svc.Subscribe(ctx, eff, ser); err != nil {
		return errors.TracerFromError(err)
	}
	ser.MarkInLoading()

	c.pendingMu.Lock()
	c.pending[ser] = func(fin feed.FinishedLoading) {
		fin.Series.MarkLoaded()
		c.log.Info("history load finished", logger.Field{
			Key:   "symbol",
			Value: fin.Symbol,
		}, logger.Field{
			Key:   "freq",
			Value: f.String(),
		})
	}
	c.pendingMu.Unlock()

	if err := svc.LoadHistory(ctx, eff, cursor); err != nil {
		c.pendingMu.Lock()
		delete(c.pending, ser)
		c.pendingMu.Unlock()
		return errors.TracerFromError(err)
	}
	return nil
}

// loadPersisted bulk-appends the stored bars into ser and returns the feed
// resume cursor.
func (c *Coordinator) loadPersisted(ctx context.Context, symbol string, f freq.Frequency, ser *series.Series) (time.Time, error) {
	quotes, err := c.quotes.ReadAll(ctx, symbol, f)
	if err != nil {
		return time.Time{}, err
	}
	if len(quotes) == 0 {
		return time.Time{}, nil
	}

	bars := make([]series.Bar, len(quotes))
	for i, q := range quotes {
		bars[i] = q
	}
	ser.Merge(bars)

	from, _ := ser.Earliest()
	to, _ := ser.Latest()
	if c.events != nil {
		if err := c.events.Publish(ctx, bus.RefreshInLoading{
			Symbol: symbol,
			Freq:   f,
			From:   from,
			To:     to,
		}); err != nil {
			c.log.WarnContext(ctx, "publish refresh_in_loading failed", logger.Field{
				Key:   "error",
				Value: err.Error(),
			})
		}
	}

	return resumeCursor(quotes), nil
}

// resumeCursor derives the feed resume time from ascending persisted bars.
// Locally originated bars cannot anchor the resume point: the feed must be
// re-asked starting just before the earliest trailing local bar so upstream
// data can supersede the local overrides.
func resumeCursor(quotes []*series.Quote) time.Time {
	if len(quotes) == 0 {
		return time.Time{}
	}
	if quotes[0].FromLocal {
		return time.Time{}
	}

	i := len(quotes)
	for i > 0 && quotes[i-1].FromLocal {
		i--
	}
	if i == len(quotes) {
		// No trailing local run: resume at the latest bar.
		return quotes[i-1].Timestamp
	}
	return quotes[i-1].Timestamp.Add(-time.Millisecond)
}

func (c *Coordinator) loadLock(symbol string) *sync.Mutex {
	c.lockMu.Lock()
	defer c.lockMu.Unlock()
	l, ok := c.loadLocks[symbol]
	if !ok {
		l = &sync.Mutex{}
		c.loadLocks[symbol] = l
	}
	return l
}
