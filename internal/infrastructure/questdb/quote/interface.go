package quote

import (
	"context"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

//go:generate mockgen -source=interface.go -destination=mock/store_mock.go -package=mock

// BatchEntry is one quote bar together with its series key, so a single
// batch may span instruments and frequencies.
type BatchEntry struct {
	Symbol string
	Freq   freq.Frequency
	Quote  *series.Quote
}

// Store is the persisted store for quote bars.
type Store interface {
	// ReadAll returns every persisted bar for the (symbol, frequency) pair
	// in ascending time order.
	ReadAll(ctx context.Context, symbol string, f freq.Frequency) ([]*series.Quote, error)

	// FetchOrCreate returns the bar keyed by the rounded bucket time,
	// or a fresh empty bar when none is persisted. Fresh bars reach the
	// store when the bucket closes and is flushed.
	FetchOrCreate(ctx context.Context, symbol string, f freq.Frequency, bucket time.Time) (*series.Quote, error)

	// Store persists a single bar.
	Store(ctx context.Context, symbol string, f freq.Frequency, q *series.Quote) error

	// StoreBatch persists a batch of bars using the copy protocol.
	StoreBatch(ctx context.Context, entries []BatchEntry) error
}
