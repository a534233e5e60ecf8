package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	busMock "github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	moneyflowMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	quoteMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote/mock"
	tickMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/tick/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

type trackerFixture struct {
	tracker *Tracker
	reg     *registry.Registry
	quotes  *quoteMock.MockStore
	flows   *moneyflowMock.MockStore
	ticks   *tickMock.MockStore
	quoteQ  *Queue[quote.BatchEntry]
	flowQ   *Queue[moneyflow.BatchEntry]
}

func newTrackerFixture(t *testing.T, ctrl *gomock.Controller, instID int64) *trackerFixture {
	t.Helper()

	exchange, err := market.NewExchange("NYSE", "America/New_York")
	assert.NoError(t, err)

	inst := &market.Instrument{
		ID:          instID,
		Symbol:      "AAPL",
		Exchange:    exchange,
		DefaultFreq: freq.Daily,
	}
	reg := registry.New(inst, nil, nil)

	quotes := quoteMock.NewMockStore(ctrl)
	flows := moneyflowMock.NewMockStore(ctrl)
	ticks := tickMock.NewMockStore(ctrl)
	events := busMock.NewMockBus(ctrl)
	events.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	quoteQ := NewQueue[quote.BatchEntry](64)
	flowQ := NewQueue[moneyflow.BatchEntry](64)

	return &trackerFixture{
		tracker: NewTracker(reg, quotes, flows, ticks, events, quoteQ, flowQ, nil),
		reg:     reg,
		quotes:  quotes,
		flows:   flows,
		ticks:   ticks,
		quoteQ:  quoteQ,
		flowQ:   flowQ,
	}
}

func (f *trackerFixture) expectFreshBuckets() {
	f.quotes.EXPECT().FetchOrCreate(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ freq.Frequency, bucket time.Time) (*series.Quote, error) {
			return &series.Quote{Timestamp: bucket}, nil
		}).AnyTimes()
	f.flows.EXPECT().FetchOrCreate(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ freq.Frequency, bucket time.Time) (*series.MoneyFlow, error) {
			return &series.MoneyFlow{Timestamp: bucket}, nil
		}).AnyTimes()
}

func tickAt(ts time.Time, price, size float64) *market.Tick {
	return &market.Tick{Timestamp: ts, Symbol: "AAPL", Price: price, Size: size}
}

func TestTracker_MinuteRollover(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newTrackerFixture(t, ctrl, 1)
	fx.expectFreshBuckets()
	fx.ticks.EXPECT().LastOfDay(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(nil, nil)

	ny, _ := time.LoadLocation("America/New_York")
	ctx := context.Background()

	// 09:30:05 and 09:31:10 local: same day, two different minutes.
	first := tickAt(time.Date(2024, 3, 8, 9, 30, 5, 0, ny), 100, 10)
	second := tickAt(time.Date(2024, 3, 8, 9, 31, 10, 0, ny), 101, 5)

	assert.NoError(t, fx.tracker.OnTick(ctx, first))
	assert.NoError(t, fx.tracker.OnTick(ctx, second))

	// Rolling into the second minute closed exactly one quote bucket and
	// one money-flow bucket; the daily buckets stayed open.
	closedQuotes := fx.quoteQ.TryDrain(10)
	assert.Len(t, closedQuotes, 1)
	assert.Equal(t, freq.OneMinute, closedQuotes[0].Freq)
	assert.True(t, closedQuotes[0].Quote.Closed)
	assert.Equal(t, time.Date(2024, 3, 8, 9, 30, 0, 0, ny).UnixMilli(), closedQuotes[0].Quote.Timestamp.UnixMilli())
	assert.Equal(t, float64(100), closedQuotes[0].Quote.Close)
	assert.Equal(t, float64(10), closedQuotes[0].Quote.Volume)

	closedFlows := fx.flowQ.TryDrain(10)
	assert.Len(t, closedFlows, 1)
	assert.Equal(t, freq.OneMinute, closedFlows[0].Freq)
	assert.True(t, closedFlows[0].Flow.Closed)

	// The registry holds one daily bar and two minute bars.
	assert.Equal(t, 1, fx.reg.GetOrCreate(freq.Daily).Len())
	assert.Equal(t, 2, fx.reg.GetOrCreate(freq.OneMinute).Len())
}

func TestTracker_DailyAggregation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newTrackerFixture(t, ctrl, 1)
	fx.expectFreshBuckets()
	fx.ticks.EXPECT().LastOfDay(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(nil, nil)

	ny, _ := time.LoadLocation("America/New_York")
	ctx := context.Background()
	base := time.Date(2024, 3, 8, 9, 30, 0, 0, ny)

	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(base, 100, 10)))
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(base.Add(10*time.Second), 105, 5)))
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(base.Add(20*time.Second), 95, 3)))

	daily, ok := fx.reg.GetOrCreate(freq.Daily).ByTime(time.Date(2024, 3, 8, 0, 0, 0, 0, ny))
	assert.True(t, ok)
	q := daily.(*series.Quote)
	assert.Equal(t, float64(100), q.Open)
	assert.Equal(t, float64(105), q.High)
	assert.Equal(t, float64(95), q.Low)
	assert.Equal(t, float64(95), q.Close)
	assert.Equal(t, float64(18), q.Volume)
}

func TestTracker_MoneyFlowClassification(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newTrackerFixture(t, ctrl, 1)
	fx.expectFreshBuckets()
	// The day's last-known tick establishes the first reference price.
	fx.ticks.EXPECT().LastOfDay(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).
		Return(&market.Tick{Symbol: "AAPL", Price: 100}, nil)

	ny, _ := time.LoadLocation("America/New_York")
	ctx := context.Background()
	base := time.Date(2024, 3, 8, 9, 30, 0, 0, ny)

	// 99 < 100: outflow. 102 > 99: inflow. 101 < 102: outflow.
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(base, 99, 10)))
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(base.Add(time.Second), 102, 4)))
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(base.Add(2*time.Second), 101, 6)))

	flow, ok := fx.reg.GetOrCreateMoneyFlow(freq.Daily).ByTime(time.Date(2024, 3, 8, 0, 0, 0, 0, ny))
	assert.True(t, ok)
	m := flow.(*series.MoneyFlow)
	assert.Equal(t, float64(4), m.InVolume)
	assert.Equal(t, float64(16), m.OutVolume)
	assert.Equal(t, float64(4*102), m.InAmount)
	assert.Equal(t, float64(10*99+6*101), m.OutAmount)
}

func TestTracker_PanicsOnTransientInstrument(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newTrackerFixture(t, ctrl, 0)
	fx.ticks.EXPECT().LastOfDay(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(nil, nil).AnyTimes()

	ny, _ := time.LoadLocation("America/New_York")
	tk := tickAt(time.Date(2024, 3, 8, 9, 30, 0, 0, ny), 100, 1)

	assert.Panics(t, func() {
		_ = fx.tracker.OnTick(context.Background(), tk)
	})
}

func TestTracker_DayTickFetchedOncePerDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	fx := newTrackerFixture(t, ctrl, 1)
	fx.expectFreshBuckets()
	// Two ticks on one day, one on the next: exactly two store lookups.
	fx.ticks.EXPECT().LastOfDay(gomock.Any(), "AAPL", gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	ny, _ := time.LoadLocation("America/New_York")
	ctx := context.Background()

	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(time.Date(2024, 3, 8, 9, 30, 0, 0, ny), 100, 1)))
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(time.Date(2024, 3, 8, 15, 59, 0, 0, ny), 101, 1)))
	assert.NoError(t, fx.tracker.OnTick(ctx, tickAt(time.Date(2024, 3, 11, 9, 30, 0, 0, ny), 102, 1)))

	// The day rollover closed the old daily buckets.
	closed := fx.quoteQ.TryDrain(10)
	var dailyClosed int
	for _, entry := range closed {
		if entry.Freq == freq.Daily {
			dailyClosed++
			assert.True(t, entry.Quote.Closed)
		}
	}
	assert.Equal(t, 1, dailyClosed)
}

func TestSet_OneTrackerPerSymbol(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	exchange, err := market.NewExchange("NYSE", "America/New_York")
	assert.NoError(t, err)
	reg := registry.New(&market.Instrument{ID: 1, Symbol: "AAPL", Exchange: exchange}, nil, nil)

	set := NewSet(
		quoteMock.NewMockStore(ctrl),
		moneyflowMock.NewMockStore(ctrl),
		tickMock.NewMockStore(ctrl),
		nil,
		NewQueue[quote.BatchEntry](8),
		NewQueue[moneyflow.BatchEntry](8),
		nil,
	)

	a := set.For(reg)
	b := set.For(reg)
	assert.Same(t, a, b)
}
