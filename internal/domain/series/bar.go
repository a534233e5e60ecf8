package series

import "time"

// Bar is a time-stamped aggregate value keyed by a rounded timestamp.
type Bar interface {
	// Stamp returns the bar's bucket key. Keys are pre-rounded to the
	// exchange's local bucket boundary before a bar enters a series.
	Stamp() time.Time

	// IsLocal reports whether the bar was produced or overridden locally
	// rather than sourced from the external feed. Local bars are
	// authoritative on reload.
	IsLocal() bool
}

// Quote is an OHLC bar for one bucket.
type Quote struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Amount    float64

	// FromLocal marks locally originated data, see Bar.IsLocal.
	FromLocal bool
	// Closed marks a bucket that will receive no further updates.
	Closed bool
}

// Stamp implements Bar.
func (q *Quote) Stamp() time.Time { return q.Timestamp }

// IsLocal implements Bar.
func (q *Quote) IsLocal() bool { return q.FromLocal }

// IsEmpty reports whether the bucket has received no trades yet.
func (q *Quote) IsEmpty() bool { return q.Volume == 0 && q.Open == 0 }

// MoneyFlow is a buy/sell volume split bar for one bucket.
type MoneyFlow struct {
	Timestamp time.Time
	InVolume  float64
	InAmount  float64
	OutVolume float64
	OutAmount float64

	FromLocal bool
	Closed    bool
}

// Stamp implements Bar.
func (m *MoneyFlow) Stamp() time.Time { return m.Timestamp }

// IsLocal implements Bar.
func (m *MoneyFlow) IsLocal() bool { return m.FromLocal }

// Net returns the net inflow value of the bucket.
func (m *MoneyFlow) Net() float64 { return m.InAmount - m.OutAmount }
