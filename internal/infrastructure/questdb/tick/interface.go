package tick

import (
	"context"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
)

//go:generate mockgen -source=interface.go -destination=mock/store_mock.go -package=mock

// Store is the persisted store for trade ticks.
type Store interface {
	// Store persists a single tick.
	Store(ctx context.Context, t *market.Tick) error

	// StoreBatch persists a batch of ticks using the copy protocol.
	StoreBatch(ctx context.Context, ticks []*market.Tick) error

	// LastOfDay returns the latest tick for symbol within [dayStart,
	// dayEnd), or nil when the day has no persisted ticks.
	LastOfDay(ctx context.Context, symbol string, dayStart, dayEnd time.Time) (*market.Tick, error)
}
