// Package snapshot folds live tick streams into rolling daily and minute
// quote and money-flow buckets, closing buckets when time rolls past their
// boundary and handing closed buckets to a shared flusher.
package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/tick"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/errors"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Tracker maintains one instrument's snapshot state: the open daily and
// minute buckets, the previous tick, and the lazily fetched last tick of the
// trading day. All bucket keys are rounded in the exchange timezone, so keys
// built here match keys built from persisted history.
type Tracker struct {
	reg    *registry.Registry
	quotes quote.Store
	flows  moneyflow.Store
	ticks  tick.Store
	events bus.Bus
	log    logger.Interface

	quoteQ *Queue[quote.BatchEntry]
	flowQ  *Queue[moneyflow.BatchEntry]

	mu   sync.Mutex
	prev *market.Tick
	cur  *market.Tick

	dayStart   time.Time
	dayTick    *market.Tick
	firstOfDay bool

	dailyQuote  *series.Quote
	minuteQuote *series.Quote
	dailyFlow   *series.MoneyFlow
	minuteFlow  *series.MoneyFlow

	windowFrom time.Time
	windowTo   time.Time
	touched    []*series.Series
}

// NewTracker creates a tracker for reg's instrument. quoteQ and flowQ are
// the process-wide flush queues shared across trackers.
func NewTracker(
	reg *registry.Registry,
	quotes quote.Store,
	flows moneyflow.Store,
	ticks tick.Store,
	events bus.Bus,
	quoteQ *Queue[quote.BatchEntry],
	flowQ *Queue[moneyflow.BatchEntry],
	log logger.Interface,
) *Tracker {
	return &Tracker{
		reg:    reg,
		quotes: quotes,
		flows:  flows,
		ticks:  ticks,
		events: events,
		quoteQ: quoteQ,
		flowQ:  flowQ,
		log:    log,
	}
}

// OnTick folds one tick into the four open buckets, resolving new buckets
// on day or minute rollover and queueing the closed ones for flushing. It
// upserts the refreshed buckets into the registry's series and publishes an
// update event covering the touched window.
func (t *Tracker) OnTick(ctx context.Context, tk *market.Tick) error {
	inst := t.reg.Instrument()
	loc := inst.Exchange.Location

	t.mu.Lock()
	defer t.mu.Unlock()

	t.prev = t.cur
	t.cur = tk
	t.touched = t.touched[:0]
	t.extendWindow(tk.Timestamp)

	if err := t.resolveDayTick(ctx, tk, loc); err != nil {
		return errors.TracerFromError(err)
	}
	if err := t.resolveBuckets(ctx, tk, inst, loc); err != nil {
		return errors.TracerFromError(err)
	}

	t.foldQuote(t.dailyQuote, tk, true)
	t.foldQuote(t.minuteQuote, tk, false)

	ref := t.refPrice(tk)
	t.foldFlow(t.dailyFlow, tk, ref)
	t.foldFlow(t.minuteFlow, tk, ref)

	t.upsertAll()

	if t.events != nil {
		if err := t.events.Publish(ctx, bus.Updated{
			Symbol: inst.Symbol,
			Freq:   freq.OneMinute,
			From:   t.windowFrom,
			To:     t.windowTo,
		}); err != nil {
			t.log.WarnContext(ctx, "publish updated failed", logger.Field{
				Key:   "error",
				Value: err.Error(),
			})
		}
	}
	return nil
}

// resolveDayTick refreshes the trading day's last-known tick when the tick
// crosses into a new local day. The previous day's last tick comes from the
// persisted store on first use; an empty day yields a fresh zero tick and
// flags the day's first tick.
func (t *Tracker) resolveDayTick(ctx context.Context, tk *market.Tick, loc *time.Location) error {
	day := freq.Daily.Round(tk.Timestamp, loc)
	if t.dayStart.Equal(day) && t.dayTick != nil {
		return nil
	}

	last, err := t.ticks.LastOfDay(ctx, tk.Symbol, day, freq.Daily.NextBucket(day, loc))
	if err != nil {
		return err
	}
	if last == nil {
		last = &market.Tick{Symbol: tk.Symbol, Timestamp: day}
		t.firstOfDay = true
	} else {
		t.firstOfDay = false
	}

	t.dayStart = day
	t.dayTick = last
	return nil
}

// resolveBuckets applies the shared bucket-rotation rule to all four bucket
// kinds. Daily buckets require a persisted instrument: a transient
// instrument reaching here is a programming error.
func (t *Tracker) resolveBuckets(ctx context.Context, tk *market.Tick, inst *market.Instrument, loc *time.Location) error {
	day := freq.Daily.Round(tk.Timestamp, loc)
	minute := freq.OneMinute.Round(tk.Timestamp, loc)

	if !inst.Persisted() {
		panic(fmt.Sprintf("snapshot: daily bucket for non-persisted instrument %s", inst.Symbol))
	}

	if t.dailyQuote == nil || !t.dailyQuote.Timestamp.Equal(day) {
		if t.dailyQuote != nil {
			t.dailyQuote.Closed = true
			t.quoteQ.Push(quote.BatchEntry{Symbol: tk.Symbol, Freq: freq.Daily, Quote: t.dailyQuote})
		}
		q, err := t.quotes.FetchOrCreate(ctx, tk.Symbol, freq.Daily, day)
		if err != nil {
			return err
		}
		t.dailyQuote = q
	}

	if t.minuteQuote == nil || !t.minuteQuote.Timestamp.Equal(minute) {
		if t.minuteQuote != nil {
			t.minuteQuote.Closed = true
			t.quoteQ.Push(quote.BatchEntry{Symbol: tk.Symbol, Freq: freq.OneMinute, Quote: t.minuteQuote})
		}
		q, err := t.quotes.FetchOrCreate(ctx, tk.Symbol, freq.OneMinute, minute)
		if err != nil {
			return err
		}
		t.minuteQuote = q
	}

	if t.dailyFlow == nil || !t.dailyFlow.Timestamp.Equal(day) {
		if t.dailyFlow != nil {
			t.dailyFlow.Closed = true
			t.flowQ.Push(moneyflow.BatchEntry{Symbol: tk.Symbol, Freq: freq.Daily, Flow: t.dailyFlow})
		}
		m, err := t.flows.FetchOrCreate(ctx, tk.Symbol, freq.Daily, day)
		if err != nil {
			return err
		}
		t.dailyFlow = m
	}

	if t.minuteFlow == nil || !t.minuteFlow.Timestamp.Equal(minute) {
		if t.minuteFlow != nil {
			t.minuteFlow.Closed = true
			t.flowQ.Push(moneyflow.BatchEntry{Symbol: tk.Symbol, Freq: freq.OneMinute, Flow: t.minuteFlow})
		}
		m, err := t.flows.FetchOrCreate(ctx, tk.Symbol, freq.OneMinute, minute)
		if err != nil {
			return err
		}
		t.minuteFlow = m
	}

	return nil
}

// foldQuote merges the tick into an open quote bucket. Daily buckets carry
// the exchange's cumulative day volume and amount; intraday buckets
// accumulate per-trade sizes.
func (t *Tracker) foldQuote(q *series.Quote, tk *market.Tick, daily bool) {
	if q.Open == 0 {
		q.Open = tk.Price
	}
	if tk.Price > q.High {
		q.High = tk.Price
	}
	if q.Low == 0 || tk.Price < q.Low {
		q.Low = tk.Price
	}
	q.Close = tk.Price

	if daily {
		if tk.DayVolume > 0 {
			q.Volume = tk.DayVolume
			q.Amount = tk.DayAmount
		} else {
			q.Volume += tk.Size
			q.Amount += tk.Amount()
		}
		return
	}
	q.Volume += tk.Size
	q.Amount += tk.Amount()
}

// refPrice is the classification reference for money flow: the previous
// tick's price, or the day's last-known tick at the day's first trade.
func (t *Tracker) refPrice(tk *market.Tick) float64 {
	if t.prev != nil && freq.Daily.SameBucket(t.prev.Timestamp, tk.Timestamp, t.reg.Instrument().Exchange.Location) {
		return t.prev.Price
	}
	return t.dayTick.Price
}

// foldFlow classifies the tick against the reference price: trading at or
// above it counts as inflow, below as outflow.
func (t *Tracker) foldFlow(m *series.MoneyFlow, tk *market.Tick, ref float64) {
	if ref > 0 && tk.Price < ref {
		m.OutVolume += tk.Size
		m.OutAmount += tk.Amount()
		return
	}
	m.InVolume += tk.Size
	m.InAmount += tk.Amount()
}

// upsertAll publishes the refreshed buckets into the registry's series and
// records them as touched.
func (t *Tracker) upsertAll() {
	dq := t.reg.GetOrCreate(freq.Daily)
	mq := t.reg.GetOrCreate(freq.OneMinute)
	df := t.reg.GetOrCreateMoneyFlow(freq.Daily)
	mf := t.reg.GetOrCreateMoneyFlow(freq.OneMinute)

	dq.Upsert(t.dailyQuote)
	mq.Upsert(t.minuteQuote)
	df.Upsert(t.dailyFlow)
	mf.Upsert(t.minuteFlow)

	t.touched = append(t.touched, dq, mq, df, mf)
}

func (t *Tracker) extendWindow(ts time.Time) {
	if t.windowFrom.IsZero() || ts.Before(t.windowFrom) {
		t.windowFrom = ts
	}
	if ts.After(t.windowTo) {
		t.windowTo = ts
	}
}

// Touched returns the series refreshed by the most recent OnTick call.
func (t *Tracker) Touched() []*series.Series {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*series.Series, len(t.touched))
	copy(out, t.touched)
	return out
}
