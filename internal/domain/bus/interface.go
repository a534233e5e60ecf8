package bus

import (
	"context"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

//go:generate mockgen -source=interface.go -destination=mock/bus_mock.go -package=mock

// Event is a notification published for indicator and display consumers.
type Event interface {
	// Channel returns the pub/sub channel the event belongs on.
	Channel() string
	// Kind returns the event discriminator written to the wire.
	Kind() string
}

// Bus delivers events to external consumers.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
}

// RefreshInLoading announces that persisted history spanning [From, To] was
// bulk-appended into a series while its load is still in progress.
type RefreshInLoading struct {
	Symbol string         `json:"symbol"`
	Freq   freq.Frequency `json:"freq"`
	From   time.Time      `json:"from"`
	To     time.Time      `json:"to"`
}

// Channel implements Event.
func (e RefreshInLoading) Channel() string { return e.Symbol }

// Kind implements Event.
func (e RefreshInLoading) Kind() string { return "refresh_in_loading" }

// Updated announces that live data touched series bars in [From, To].
type Updated struct {
	Symbol string         `json:"symbol"`
	Freq   freq.Frequency `json:"freq"`
	From   time.Time      `json:"from"`
	To     time.Time      `json:"to"`
}

// Channel implements Event.
func (e Updated) Channel() string { return e.Symbol }

// Kind implements Event.
func (e Updated) Kind() string { return "updated" }
