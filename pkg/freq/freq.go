package freq

import (
	"fmt"
	"time"
)

// Unit is the calendar unit a Frequency is expressed in.
type Unit int

// Supported units, finest first.
const (
	Second Unit = iota
	Minute
	Hour
	Day
	Week
	Month
	Year
)

// Frequency represents a sampling granularity: n units per bar. The zero
// value is invalid; use the package variables or Parse. Frequency is
// comparable and usable as a map key.
type Frequency struct {
	Unit Unit
	N    int
}

// Supported frequencies configuration.
var (
	OneSecond      = Frequency{Second, 1}
	OneMinute      = Frequency{Minute, 1}
	FiveMinutes    = Frequency{Minute, 5}
	FifteenMinutes = Frequency{Minute, 15}
	ThirtyMinutes  = Frequency{Minute, 30}
	OneHour        = Frequency{Hour, 1}
	FourHours      = Frequency{Hour, 4}
	Daily          = Frequency{Day, 1}
	Weekly         = Frequency{Week, 1}
	Monthly        = Frequency{Month, 1}
	Yearly         = Frequency{Year, 1}
)

// All supported frequencies.
var All = []Frequency{
	OneSecond, OneMinute, FiveMinutes, FifteenMinutes, ThirtyMinutes,
	OneHour, FourHours, Daily, Weekly, Monthly, Yearly,
}

var unitNames = map[Unit]string{
	Second: "s",
	Minute: "m",
	Hour:   "h",
	Day:    "d",
	Week:   "w",
	Month:  "M",
	Year:   "y",
}

var nameRegistry = make(map[string]Frequency)

func init() {
	for _, f := range All {
		nameRegistry[f.String()] = f
	}
}

// String returns the canonical name, e.g. "1m", "4h", "1d", "1M".
func (f Frequency) String() string {
	return fmt.Sprintf("%d%s", f.N, unitNames[f.Unit])
}

// Parse returns the frequency with the given canonical name.
func Parse(name string) (Frequency, error) {
	f, ok := nameRegistry[name]
	if !ok {
		return Frequency{}, fmt.Errorf("unsupported frequency: %s", name)
	}
	return f, nil
}

// IsValid checks whether name denotes a supported frequency.
func IsValid(name string) bool {
	_, ok := nameRegistry[name]
	return ok
}

// Interval returns the nominal duration of one bar. Calendar units use their
// nominal length (30-day month, 365-day year); bucket boundaries never rely
// on this, only relative comparisons do.
func (f Frequency) Interval() time.Duration {
	switch f.Unit {
	case Second:
		return time.Duration(f.N) * time.Second
	case Minute:
		return time.Duration(f.N) * time.Minute
	case Hour:
		return time.Duration(f.N) * time.Hour
	case Day:
		return time.Duration(f.N) * 24 * time.Hour
	case Week:
		return time.Duration(f.N) * 7 * 24 * time.Hour
	case Month:
		return time.Duration(f.N) * 30 * 24 * time.Hour
	case Year:
		return time.Duration(f.N) * 365 * 24 * time.Hour
	default:
		return 0
	}
}

// IsBase reports whether series of this frequency are constructed directly
// rather than derived by resampling. Second, minute and daily series are the
// only base series.
func (f Frequency) IsBase() bool {
	return f == OneSecond || f == OneMinute || f == Daily
}

// Source returns the base frequency a derived series of this frequency
// resamples from: day-scale and coarser targets resample the daily series,
// anything finer resamples the minute series.
func (f Frequency) Source() Frequency {
	if f.Unit >= Day {
		return Daily
	}
	return OneMinute
}
