package market

import "time"

// Tick is a single trade observation.
type Tick struct {
	Timestamp time.Time
	Symbol    string
	Price     float64
	Size      float64

	// Running totals for the trading day, as reported by the source.
	DayVolume float64
	DayAmount float64
}

// Amount returns the traded value of this tick.
func (t *Tick) Amount() float64 {
	return t.Price * t.Size
}
