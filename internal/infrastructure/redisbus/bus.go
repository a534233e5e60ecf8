// Package redisbus publishes series events over Redis pub/sub channels so
// indicator and display consumers outside this process can react to data
// refreshes.
package redisbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/errors"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Bus implements the event bus on Redis pub/sub. Events are published as
// JSON envelopes on "<prefix><channel>".
type Bus struct {
	client *redis.Client
	prefix string
	log    logger.Interface
}

type envelope struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// New connects a Redis client and verifies it with a ping.
func New(ctx context.Context, cfg config.RedisConfig, log logger.Interface) (*Bus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   cfg.MaxRetries,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.ConnectTimeout) * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return &Bus{client: client, prefix: cfg.ChannelPrefix, log: log}, nil
}

// Publish implements bus.Bus.
func (b *Bus) Publish(ctx context.Context, ev bus.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return errors.TracerFromError(err)
	}
	body, err := json.Marshal(envelope{Kind: ev.Kind(), Payload: payload})
	if err != nil {
		return errors.TracerFromError(err)
	}

	channel := b.prefix + ev.Channel()
	if err := b.client.Publish(ctx, channel, body).Err(); err != nil {
		return errors.TracerFromError(err)
	}

	b.log.DebugContext(ctx, "event published", logger.Field{
		Key:   "channel",
		Value: channel,
	}, logger.Field{
		Key:   "kind",
		Value: ev.Kind(),
	})
	return nil
}

// Close releases the Redis connection pool.
func (b *Bus) Close() error {
	return b.client.Close()
}
