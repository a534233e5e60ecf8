package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/questdb"
)

// Repository is the QuestDB-backed quote store.
type Repository struct {
	client questdb.Client
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new quote repository.
func NewRepository(client questdb.Client) *Repository {
	return &Repository{client: client}
}

// ReadAll returns all bars for (symbol, frequency) in ascending time order.
func (r *Repository) ReadAll(ctx context.Context, symbol string, f freq.Frequency) ([]*series.Quote, error) {
	query := `SELECT timestamp, open, high, low, close, volume, amount, from_local, closed
			  FROM quote
			  WHERE symbol = $1 AND freq = $2
			  ORDER BY timestamp ASC`

	rows, err := r.client.Query(ctx, query, symbol, f.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*series.Quote
	for rows.Next() {
		q := &series.Quote{}
		err := rows.Scan(&q.Timestamp, &q.Open, &q.High, &q.Low, &q.Close,
			&q.Volume, &q.Amount, &q.FromLocal, &q.Closed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return quotes, nil
}

// FetchOrCreate returns the persisted bar for the bucket, or a fresh empty
// bar when none exists yet.
func (r *Repository) FetchOrCreate(ctx context.Context, symbol string, f freq.Frequency, bucket time.Time) (*series.Quote, error) {
	query := `SELECT timestamp, open, high, low, close, volume, amount, from_local, closed
			  FROM quote
			  WHERE symbol = $1 AND freq = $2 AND timestamp = $3
			  LIMIT 1`

	q := &series.Quote{}
	err := r.client.QueryRow(ctx, query, symbol, f.String(), bucket).Scan(
		&q.Timestamp, &q.Open, &q.High, &q.Low, &q.Close,
		&q.Volume, &q.Amount, &q.FromLocal, &q.Closed)

	if err != nil {
		if err == pgx.ErrNoRows {
			return &series.Quote{Timestamp: bucket}, nil
		}
		return nil, fmt.Errorf("failed to fetch quote bucket: %w", err)
	}

	return q, nil
}

// Store persists a single bar.
func (r *Repository) Store(ctx context.Context, symbol string, f freq.Frequency, q *series.Quote) error {
	query := `INSERT INTO quote (timestamp, symbol, freq, open, high, low, close, volume, amount, from_local, closed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	err := r.client.Exec(ctx, query,
		q.Timestamp, symbol, f.String(), q.Open, q.High, q.Low, q.Close,
		q.Volume, q.Amount, q.FromLocal, q.Closed)
	if err != nil {
		return fmt.Errorf("failed to store quote: %w", err)
	}

	return nil
}

// StoreBatch persists a batch of bars using CopyFrom for performance.
func (r *Repository) StoreBatch(ctx context.Context, entries []BatchEntry) error {
	if len(entries) == 0 {
		return nil
	}

	_, err := r.client.CopyFrom(
		ctx,
		pgx.Identifier{"quote"},
		[]string{"timestamp", "symbol", "freq", "open", "high", "low", "close", "volume", "amount", "from_local", "closed"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{
				e.Quote.Timestamp,
				e.Symbol,
				e.Freq.String(),
				e.Quote.Open,
				e.Quote.High,
				e.Quote.Low,
				e.Quote.Close,
				e.Quote.Volume,
				e.Quote.Amount,
				e.Quote.FromLocal,
				e.Quote.Closed,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy quote batch: %w", err)
	}

	return nil
}
