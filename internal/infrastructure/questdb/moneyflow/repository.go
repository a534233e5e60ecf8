package moneyflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/questdb"
)

// Repository is the QuestDB-backed money-flow store.
type Repository struct {
	client questdb.Client
}

var _ Store = (*Repository)(nil)

// NewRepository creates a new money-flow repository.
func NewRepository(client questdb.Client) *Repository {
	return &Repository{client: client}
}

// ReadAll returns all bars for (symbol, frequency) in ascending time order.
func (r *Repository) ReadAll(ctx context.Context, symbol string, f freq.Frequency) ([]*series.MoneyFlow, error) {
	query := `SELECT timestamp, in_volume, in_amount, out_volume, out_amount, from_local, closed
			  FROM money_flow
			  WHERE symbol = $1 AND freq = $2
			  ORDER BY timestamp ASC`

	rows, err := r.client.Query(ctx, query, symbol, f.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query money flows: %w", err)
	}
	defer rows.Close()

	var flows []*series.MoneyFlow
	for rows.Next() {
		m := &series.MoneyFlow{}
		err := rows.Scan(&m.Timestamp, &m.InVolume, &m.InAmount,
			&m.OutVolume, &m.OutAmount, &m.FromLocal, &m.Closed)
		if err != nil {
			return nil, fmt.Errorf("failed to scan money flow: %w", err)
		}
		flows = append(flows, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return flows, nil
}

// FetchOrCreate returns the persisted bar for the bucket, or a fresh empty
// bar when none exists yet.
func (r *Repository) FetchOrCreate(ctx context.Context, symbol string, f freq.Frequency, bucket time.Time) (*series.MoneyFlow, error) {
	query := `SELECT timestamp, in_volume, in_amount, out_volume, out_amount, from_local, closed
			  FROM money_flow
			  WHERE symbol = $1 AND freq = $2 AND timestamp = $3
			  LIMIT 1`

	m := &series.MoneyFlow{}
	err := r.client.QueryRow(ctx, query, symbol, f.String(), bucket).Scan(
		&m.Timestamp, &m.InVolume, &m.InAmount,
		&m.OutVolume, &m.OutAmount, &m.FromLocal, &m.Closed)

	if err != nil {
		if err == pgx.ErrNoRows {
			return &series.MoneyFlow{Timestamp: bucket}, nil
		}
		return nil, fmt.Errorf("failed to fetch money-flow bucket: %w", err)
	}

	return m, nil
}

// Store persists a single bar.
func (r *Repository) Store(ctx context.Context, symbol string, f freq.Frequency, m *series.MoneyFlow) error {
	query := `INSERT INTO money_flow (timestamp, symbol, freq, in_volume, in_amount, out_volume, out_amount, from_local, closed)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	err := r.client.Exec(ctx, query,
		m.Timestamp, symbol, f.String(), m.InVolume, m.InAmount,
		m.OutVolume, m.OutAmount, m.FromLocal, m.Closed)
	if err != nil {
		return fmt.Errorf("failed to store money flow: %w", err)
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
		pgx.Identifier{"money_flow"},
		[]string{"timestamp", "symbol", "freq", "in_volume", "in_amount", "out_volume", "out_amount", "from_local", "closed"},
		pgx.CopyFromSlice(len(entries), func(i int) ([]any, error) {
			e := entries[i]
			return []any{
				e.Flow.Timestamp,
				e.Symbol,
				e.Freq.String(),
				e.Flow.InVolume,
				e.Flow.InAmount,
				e.Flow.OutVolume,
				e.Flow.OutAmount,
				e.Flow.FromLocal,
				e.Flow.Closed,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy money-flow batch: %w", err)
	}

	return nil
}
