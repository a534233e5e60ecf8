package moneyflow

import (
	"context"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

//go:generate mockgen -source=interface.go -destination=mock/store_mock.go -package=mock

// BatchEntry is one money-flow bar together with its series key.
type BatchEntry struct {
	Symbol string
	Freq   freq.Frequency
	Flow   *series.MoneyFlow
}

// Store is the persisted store for money-flow bars.
type Store interface {
	// ReadAll returns every persisted bar for the (symbol, frequency) pair
	// in ascending time order.
	ReadAll(ctx context.Context, symbol string, f freq.Frequency) ([]*series.MoneyFlow, error)

	// FetchOrCreate returns the bar keyed by the rounded bucket time, or a
	// fresh empty bar when none is persisted.
	FetchOrCreate(ctx context.Context, symbol string, f freq.Frequency, bucket time.Time) (*series.MoneyFlow, error)

	// Store persists a single bar.
	Store(ctx context.Context, symbol string, f freq.Frequency, m *series.MoneyFlow) error

	// StoreBatch persists a batch of bars using the copy protocol.
	StoreBatch(ctx context.Context, entries []BatchEntry) error
}
