package tick

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/questdb"
)

// Repository is the QuestDB-backed tick store.
type Repository struct {
	client questdb.Client
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new tick repository.
func NewRepository(client questdb.Client) *Repository {
	return &Repository{client: client}
}

// Store persists a single tick.
func (r *Repository) Store(ctx context.Context, t *market.Tick) error {
	query := `INSERT INTO tick (timestamp, symbol, price, size, day_volume, day_amount)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	err := r.client.Exec(ctx, query,
		t.Timestamp, t.Symbol, t.Price, t.Size, t.DayVolume, t.DayAmount)
	if err != nil {
		return fmt.Errorf("failed to store tick: %w", err)
	}

	return nil
}

// StoreBatch persists a batch of ticks using CopyFrom for performance.
func (r *Repository) StoreBatch(ctx context.Context, ticks []*market.Tick) error {
	if len(ticks) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"tick"},
		[]string{"timestamp", "symbol", "price", "size", "day_volume", "day_amount"},
		pgx.CopyFromSlice(len(ticks), func(i int) ([]any, error) {
			t := ticks[i]
			return []any{
				t.Timestamp,
				t.Symbol,
				t.Price,
				t.Size,
				t.DayVolume,
				t.DayAmount,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy tick batch: %w", err)
	}

	return nil
}

// LastOfDay returns the latest persisted tick within [dayStart, dayEnd).
func (r *Repository) LastOfDay(ctx context.Context, symbol string, dayStart, dayEnd time.Time) (*market.Tick, error) {
	query := `SELECT timestamp, symbol, price, size, day_volume, day_amount
			  FROM tick
			  WHERE symbol = $1 AND timestamp >= $2 AND timestamp < $3
			  ORDER BY timestamp DESC
			  LIMIT 1`

	t := &market.Tick{}
	err := r.client.QueryRow(ctx, query, symbol, dayStart, dayEnd).Scan(
		&t.Timestamp, &t.Symbol, &t.Price, &t.Size, &t.DayVolume, &t.DayAmount)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last tick of day: %w", err)
	}

	return t, nil
}
