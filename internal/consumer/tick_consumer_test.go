package consumer

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	moneyflowMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	quoteMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote/mock"
	tickMock "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/tick/mock"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/internal/snapshot"
	loggerMock "github.com/sanyaade-fintechnology/aiotrade/pkg/logger/mock"
)

func TestTickConsumer_HandleTick(t *testing.T) {
	testCases := []struct {
		name     string
		raw      *rawTick
		mockFn   func(t *testing.T, ticks *tickMock.MockStore, log *loggerMock.MockInterface)
		assertFn func(t *testing.T, err error)
	}{
		{
			name: "unknown symbol is skipped after persisting",
			raw:  &rawTick{Timestamp: time.Now().UnixMilli(), Symbol: "UNKNOWN", Price: 1, Size: 1},
			mockFn: func(t *testing.T, ticks *tickMock.MockStore, log *loggerMock.MockInterface) {
				ticks.EXPECT().Store(gomock.Any(), gomock.Any()).Return(nil)
				log.EXPECT().WarnContext(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "store failure propagates",
			raw:  &rawTick{Timestamp: time.Now().UnixMilli(), Symbol: "AAPL", Price: 1, Size: 1},
			mockFn: func(t *testing.T, ticks *tickMock.MockStore, log *loggerMock.MockInterface) {
				ticks.EXPECT().Store(gomock.Any(), gomock.Any()).Return(assert.AnError)
				log.EXPECT().ErrorContext(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)
			},
			assertFn: func(t *testing.T, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			ticks := tickMock.NewMockStore(ctrl)
			log := loggerMock.NewMockInterface(ctrl)

			exchange, err := market.NewExchange("NYSE", "America/New_York")
			assert.NoError(t, err)
			universe := market.NewUniverse()
			universe.Add(&market.Instrument{ID: 1, Symbol: "AAPL", Exchange: exchange})

			hub := registry.NewHub(universe, nil, nil)
			trackers := snapshot.NewSet(
				quoteMock.NewMockStore(ctrl),
				moneyflowMock.NewMockStore(ctrl),
				ticks,
				nil,
				snapshot.NewQueue[quote.BatchEntry](8),
				snapshot.NewQueue[moneyflow.BatchEntry](8),
				nil,
			)

			testCase.mockFn(t, ticks, log)

			c := &TickConsumer{
				logger:   log,
				ticks:    ticks,
				hub:      hub,
				trackers: trackers,
			}
			testCase.assertFn(t, c.handleTick(context.Background(), testCase.raw))
		})
	}
}

func TestTickConsumer_SubscribeExitsWhenStartReturns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	log := loggerMock.NewMockInterface(ctrl)
	log.EXPECT().InfoContext(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	c := &TickConsumer{
		logger:  log,
		msgChan: make(chan kafka.Message),
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		c.Subscribe(ctx)
		close(done)
	}()

	// Start returning must close the channel and release Subscribe.
	c.Start(ctx)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("subscribe loop did not exit after consumer start returned")
	}
}
