package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	tickInfra "github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/tick"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/internal/snapshot"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/util"
)

// rawTick is the wire shape of one trade tick on the tick topic.
type rawTick struct {
	Timestamp int64   `json:"timestamp"`
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Size      float64 `json:"size"`
	DayVolume float64 `json:"day_volume"`
	DayAmount float64 `json:"day_amount"`
}

// TickConsumer is the consumer for the tick topic. Each tick is persisted
// and folded into the owning instrument's snapshot buckets.
type TickConsumer struct {
	kafkaReader *kafka.Reader
	logger      logger.Interface

	ticks    tickInfra.Store
	hub      *registry.Hub
	trackers *snapshot.Set
	msgChan  chan kafka.Message
}

// NewTickConsumer creates a new TickConsumer.
func NewTickConsumer(config config.TickKafkaConfig, logger logger.Interface, ticks tickInfra.Store, hub *registry.Hub, trackers *snapshot.Set) *TickConsumer {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     config.Brokers,
		Topic:       config.Topic,
		GroupID:     config.ConsumerGroup,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})
	return &TickConsumer{
		kafkaReader: kafkaReader,
		logger:      logger,
		ticks:       ticks,
		hub:         hub,
		trackers:    trackers,
		msgChan:     make(chan kafka.Message),
	}
}

// Start starts the TickConsumer. The message channel is closed on return
// so Subscribe loops exit with it.
func (c *TickConsumer) Start(ctx context.Context) {
	defer close(c.msgChan)

	c.logger.InfoContext(ctx, "starting tick consumer", logger.Field{
		Key:   "action",
		Value: "tick_consumer_start",
	})

	for {
		select {
		case <-ctx.Done():
			c.logger.InfoContext(ctx, "context done", logger.Field{
				Key:   "action",
				Value: "tick_consumer_stop",
			})
			return
		default:
			msg, err := c.kafkaReader.ReadMessage(ctx)
			if err != nil {
				c.logger.ErrorContext(ctx, err, logger.Field{
					Key:   "action",
					Value: "read_message",
				})
				continue
			}

			c.msgChan <- msg
		}
	}
}

// Stop stops the TickConsumer.
func (c *TickConsumer) Stop() error {
	c.logger.InfoContext(context.Background(), "stopping tick consumer", logger.Field{
		Key:   "action",
		Value: "tick_consumer_stop",
	})
	return c.kafkaReader.Close()
}

// Subscribe subscribes to the TickConsumer.
func (c *TickConsumer) Subscribe(ctx context.Context) {
	c.logger.InfoContext(ctx, "subscribing to tick consumer", logger.Field{
		Key:   "action",
		Value: "tick_consumer_subscribe",
	})

	for msg := range c.msgChan {
		ctx := util.WithRequestID(ctx, "")

		var raw rawTick
		if err := json.Unmarshal(msg.Value, &raw); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "unmarshal_tick",
			})
			continue
		}

		if err := c.handleTick(ctx, &raw); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "handle_tick",
			})
		}

		if err := c.kafkaReader.CommitMessages(ctx, msg); err != nil {
			c.logger.ErrorContext(ctx, err, logger.Field{
				Key:   "action",
				Value: "commit_message",
			})
		}
	}
}

func (c *TickConsumer) handleTick(ctx context.Context, raw *rawTick) error {
	tk := &market.Tick{
		Timestamp: time.UnixMilli(raw.Timestamp).UTC(),
		Symbol:    raw.Symbol,
		Price:     raw.Price,
		Size:      raw.Size,
		DayVolume: raw.DayVolume,
		DayAmount: raw.DayAmount,
	}

	if err := c.ticks.Store(ctx, tk); err != nil {
		c.logger.ErrorContext(ctx, err, logger.Field{
			Key:   "action",
			Value: "store_tick",
		})
		return err
	}

	reg, ok := c.hub.For(tk.Symbol)
	if !ok {
		c.logger.WarnContext(ctx, "tick for unknown symbol", logger.Field{
			Key:   "symbol",
			Value: tk.Symbol,
		})
		return nil
	}

	return c.trackers.For(reg).OnTick(ctx, tk)
}
