package loader

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus"
	busMock "github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/feed"
	feedMock "github.com/sanyaade-fintechnology/aiotrade/internal/domain/feed/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	quoteMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/errors"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	loggerMock "github.com/sanyaade-fintechnology/aiotrade/pkg/logger/mock"
)

func barAt(ms int64, fromLocal bool) *series.Quote {
	return &series.Quote{Timestamp: time.UnixMilli(ms).UTC(), Close: 1, FromLocal: fromLocal}
}

func TestResumeCursor(t *testing.T) {
	testCases := []struct {
		name   string
		quotes []*series.Quote
		want   int64
	}{
		{
			name:   "empty store resumes from zero",
			quotes: nil,
			want:   0,
		},
		{
			name:   "earliest bar locally originated resumes from zero",
			quotes: []*series.Quote{barAt(100, true), barAt(200, false)},
			want:   0,
		},
		{
			name:   "trailing local run resumes just before the run",
			quotes: []*series.Quote{barAt(100, false), barAt(200, true), barAt(300, true)},
			want:   99,
		},
		{
			name:   "no local bars resumes at latest",
			quotes: []*series.Quote{barAt(100, false), barAt(200, false), barAt(300, false)},
			want:   300,
		},
		{
			name:   "single local bar resumes from zero",
			quotes: []*series.Quote{barAt(100, true)},
			want:   0,
		},
		{
			name:   "interior local bar does not move the cursor",
			quotes: []*series.Quote{barAt(100, false), barAt(200, true), barAt(300, false)},
			want:   300,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			got := resumeCursor(testCase.quotes)
			if testCase.want == 0 {
				assert.True(t, got.IsZero())
				return
			}
			assert.Equal(t, testCase.want, got.UnixMilli())
		})
	}
}

func testRegistry(t *testing.T, contracts []*market.DataSourceContract) *registry.Registry {
	t.Helper()
	exchange, err := market.NewExchange("NYSE", "America/New_York")
	assert.NoError(t, err)

	return registry.New(&market.Instrument{
		ID:          1,
		Symbol:      "AAPL",
		Exchange:    exchange,
		DefaultFreq: freq.Daily,
		Contracts:   contracts,
	}, nil, nil)
}

func TestCoordinator_LoadSeries(t *testing.T) {
	dailyContract := &market.DataSourceContract{
		SourceSymbol: "AAPL",
		Service:      "kafka-feed",
		Freq:         freq.Daily,
		Refreshable:  true,
	}

	testCases := []struct {
		name      string
		contracts []*market.DataSourceContract
		mockFn    func(t *testing.T, quotes *quoteMock.MockStore, events *busMock.MockBus, svc *feedMock.MockService, ser *series.Series)
		assertFn  func(t *testing.T, ser *series.Series, err error)
	}{
		{
			name:      "no contract completes benignly",
			contracts: nil,
			mockFn: func(t *testing.T, quotes *quoteMock.MockStore, events *busMock.MockBus, svc *feedMock.MockService, ser *series.Series) {
				quotes.EXPECT().ReadAll(gomock.Any(), "AAPL", freq.Weekly).Return(nil, nil)
			},
			assertFn: func(t *testing.T, ser *series.Series, err error) {
				assert.NoError(t, err)
				assert.True(t, ser.Loaded())
				assert.False(t, ser.InLoading())
			},
		},
		{
			name:      "store error propagates",
			contracts: []*market.DataSourceContract{dailyContract},
			mockFn: func(t *testing.T, quotes *quoteMock.MockStore, events *busMock.MockBus, svc *feedMock.MockService, ser *series.Series) {
				quotes.EXPECT().ReadAll(gomock.Any(), "AAPL", freq.Weekly).
					Return(nil, errors.NewErrorDetails("read failed", string(errors.QuoteReadError), ""))
			},
			assertFn: func(t *testing.T, ser *series.Series, err error) {
				assert.Error(t, err)
				assert.False(t, ser.Loaded())
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			quotes := quoteMock.NewMockStore(ctrl)
			events := busMock.NewMockBus(ctrl)
			svc := feedMock.NewMockService(ctrl)
			log := loggerMock.NewMockInterface(ctrl)
			log.EXPECT().Info(gomock.Any(), gomock.Any()).AnyTimes()
			log.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

			reg := testRegistry(t, testCase.contracts)
			ser := series.New(freq.Weekly)

			testCase.mockFn(t, quotes, events, svc, ser)

			coord := New(quotes, events, log)
			coord.RegisterFeed("kafka-feed", svc)

			err := coord.LoadSeries(context.Background(), reg, freq.Weekly, ser)
			testCase.assertFn(t, ser, err)
		})
	}
}

func TestCoordinator_TwoPhaseLoad(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quotes := quoteMock.NewMockStore(ctrl)
	events := busMock.NewMockBus(ctrl)
	svc := feedMock.NewMockService(ctrl)
	log := loggerMock.NewMockInterface(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	contract := &market.DataSourceContract{
		SourceSymbol: "AAPL",
		Service:      "kafka-feed",
		Freq:         freq.Daily,
	}
	reg := testRegistry(t, []*market.DataSourceContract{contract})
	ser := series.New(freq.Daily)

	stored := []*series.Quote{barAt(100, false), barAt(200, true), barAt(300, true)}
	quotes.EXPECT().ReadAll(gomock.Any(), "AAPL", freq.Daily).Return(stored, nil)

	events.EXPECT().Publish(gomock.Any(), gomock.AssignableToTypeOf(bus.RefreshInLoading{})).
		DoAndReturn(func(_ context.Context, ev bus.Event) error {
			refresh := ev.(bus.RefreshInLoading)
			assert.Equal(t, int64(100), refresh.From.UnixMilli())
			assert.Equal(t, int64(300), refresh.To.UnixMilli())
			return nil
		})

	svc.EXPECT().Subscribe(gomock.Any(), contract, ser).Return(nil)
	svc.EXPECT().LoadHistory(gomock.Any(), contract, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *market.DataSourceContract, from time.Time) error {
			assert.Equal(t, int64(99), from.UnixMilli())
			return nil
		})

	coord := New(quotes, events, log)
	coord.RegisterFeed("kafka-feed", svc)

	err := coord.LoadSeries(context.Background(), reg, freq.Daily, ser)
	assert.NoError(t, err)

	// Persisted bars were bulk-appended, the load is still open.
	assert.Equal(t, 3, ser.Len())
	assert.True(t, ser.InLoading())
	assert.False(t, ser.Loaded())

	// Completion fires the one-shot handler exactly once.
	fin := feed.FinishedLoading{Series: ser, Symbol: "AAPL"}
	coord.dispatch(fin)
	assert.True(t, ser.Loaded())
	assert.False(t, ser.InLoading())

	// A repeated signal finds no handler and is ignored.
	coord.dispatch(fin)
	assert.True(t, ser.Loaded())
}

func TestCoordinator_UnknownFeedCompletesBenignly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quotes := quoteMock.NewMockStore(ctrl)
	log := loggerMock.NewMockInterface(ctrl)
	log.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	contract := &market.DataSourceContract{
		SourceSymbol: "AAPL",
		Service:      "unknown-feed",
		Freq:         freq.Daily,
	}
	reg := testRegistry(t, []*market.DataSourceContract{contract})
	ser := series.New(freq.Daily)

	quotes.EXPECT().ReadAll(gomock.Any(), "AAPL", freq.Daily).Return(nil, nil)

	coord := New(quotes, nil, log)
	err := coord.LoadSeries(context.Background(), reg, freq.Daily, ser)
	assert.NoError(t, err)
	assert.True(t, ser.Loaded())
}

func TestCoordinator_WatcherDispatchesFinished(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quotes := quoteMock.NewMockStore(ctrl)
	svc := feedMock.NewMockService(ctrl)
	log := loggerMock.NewMockInterface(ctrl)
	log.EXPECT().Info(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	finished := make(chan feed.FinishedLoading, 1)
	svc.EXPECT().Finished().Return((<-chan feed.FinishedLoading)(finished)).AnyTimes()

	contract := &market.DataSourceContract{
		SourceSymbol: "AAPL",
		Service:      "kafka-feed",
		Freq:         freq.Daily,
	}
	reg := testRegistry(t, []*market.DataSourceContract{contract})
	ser := series.New(freq.Daily)

	quotes.EXPECT().ReadAll(gomock.Any(), "AAPL", freq.Daily).Return(nil, nil)
	svc.EXPECT().Subscribe(gomock.Any(), contract, ser).Return(nil)
	svc.EXPECT().LoadHistory(gomock.Any(), contract, gomock.Any()).Return(nil)

	coord := New(quotes, nil, log)
	coord.RegisterFeed("kafka-feed", svc)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	coord.Start(ctx)

	err := coord.LoadSeries(ctx, reg, freq.Daily, ser)
	assert.NoError(t, err)
	assert.True(t, ser.InLoading())

	finished <- feed.FinishedLoading{Series: ser, Symbol: "AAPL"}

	assert.Eventually(t, ser.Loaded, time.Second, 5*time.Millisecond)

	cancel()
	coord.Wait()
}

func TestCoordinator_RealtimeUsesSecondContract(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	quotes := quoteMock.NewMockStore(ctrl)
	svc := feedMock.NewMockService(ctrl)
	log := loggerMock.NewMockInterface(ctrl)

	contract := &market.DataSourceContract{
		SourceSymbol: "AAPL",
		Service:      "kafka-feed",
		Freq:         freq.Daily,
		SupportedFreqs: []freq.Frequency{
			freq.OneSecond,
		},
	}
	reg := testRegistry(t, []*market.DataSourceContract{contract})
	ser := reg.Realtime()

	quotes.EXPECT().ReadAll(gomock.Any(), "AAPL", freq.OneSecond).Return(nil, nil)
	svc.EXPECT().Subscribe(gomock.Any(), gomock.Any(), ser).
		DoAndReturn(func(_ context.Context, c *market.DataSourceContract, _ *series.Series) error {
			assert.Equal(t, freq.OneSecond, c.Freq)
			assert.False(t, c.Refreshable)
			return nil
		})
	svc.EXPECT().LoadHistory(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	coord := New(quotes, nil, log)
	coord.RegisterFeed("kafka-feed", svc)

	err := coord.LoadSeries(context.Background(), reg, freq.OneSecond, ser)
	assert.NoError(t, err)
	assert.True(t, ser.InLoading())
}
