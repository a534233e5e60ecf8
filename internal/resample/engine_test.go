package resample

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

func minuteQuote(ts time.Time, o, h, l, c, v float64) *series.Quote {
	return &series.Quote{
		Timestamp: ts,
		Open:      o,
		High:      h,
		Low:       l,
		Close:     c,
		Volume:    v,
		Amount:    v * c,
	}
}

func TestEngine_Backfill(t *testing.T) {
	src := series.New(freq.OneMinute)
	base := time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)

	// Two 5-minute buckets worth of minute bars.
	src.Upsert(minuteQuote(base, 10, 12, 9, 11, 100))
	src.Upsert(minuteQuote(base.Add(1*time.Minute), 11, 14, 10, 13, 50))
	src.Upsert(minuteQuote(base.Add(5*time.Minute), 13, 13, 8, 9, 25))

	out := NewEngine(nil).DeriveFrom(src, freq.FiveMinutes, time.UTC)

	assert.Equal(t, 2, out.Len())

	first, ok := out.ByTime(base)
	assert.True(t, ok)
	q := first.(*series.Quote)
	assert.Equal(t, float64(10), q.Open)
	assert.Equal(t, float64(14), q.High)
	assert.Equal(t, float64(9), q.Low)
	assert.Equal(t, float64(13), q.Close)
	assert.Equal(t, float64(150), q.Volume)
	assert.True(t, q.FromLocal)

	second, ok := out.ByTime(base.Add(5 * time.Minute))
	assert.True(t, ok)
	q = second.(*series.Quote)
	assert.Equal(t, float64(13), q.Open)
	assert.Equal(t, float64(9), q.Close)
	assert.Equal(t, float64(25), q.Volume)
}

func TestEngine_IncrementalUpdate(t *testing.T) {
	src := series.New(freq.OneMinute)
	base := time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)
	src.Upsert(minuteQuote(base, 10, 12, 9, 11, 100))

	out := NewEngine(nil).DeriveFrom(src, freq.FiveMinutes, time.UTC)
	assert.Equal(t, 1, out.Len())

	// A later minute bar in the same bucket refolds that bucket.
	src.Upsert(minuteQuote(base.Add(2*time.Minute), 11, 20, 11, 19, 30))

	b, ok := out.ByTime(base)
	assert.True(t, ok)
	q := b.(*series.Quote)
	assert.Equal(t, float64(10), q.Open)
	assert.Equal(t, float64(20), q.High)
	assert.Equal(t, float64(19), q.Close)
	assert.Equal(t, float64(130), q.Volume)

	// A bar in a new bucket opens a second target bar.
	src.Upsert(minuteQuote(base.Add(7*time.Minute), 19, 19, 18, 18, 10))
	assert.Equal(t, 2, out.Len())
}

func TestEngine_Deterministic(t *testing.T) {
	base := time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)
	build := func() *series.Series {
		src := series.New(freq.OneMinute)
		for i := 0; i < 30; i++ {
			ts := base.Add(time.Duration(i) * time.Minute)
			src.Upsert(minuteQuote(ts, float64(10+i), float64(12+i), float64(9+i), float64(11+i), 100))
		}
		return NewEngine(nil).DeriveFrom(src, freq.FifteenMinutes, time.UTC)
	}

	a, b := build(), build()
	assert.Equal(t, a.Len(), b.Len())
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.At(i).(*series.Quote), b.At(i).(*series.Quote))
	}
}

func TestEngine_DailyToWeekly(t *testing.T) {
	src := series.New(freq.Daily)
	// Monday through Wednesday of one week, then next Monday.
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	src.Upsert(minuteQuote(monday, 10, 15, 9, 12, 100))
	src.Upsert(minuteQuote(monday.AddDate(0, 0, 2), 12, 16, 11, 14, 80))
	src.Upsert(minuteQuote(monday.AddDate(0, 0, 7), 14, 14, 13, 13, 60))

	out := NewEngine(nil).DeriveFrom(src, freq.Weekly, time.UTC)

	assert.Equal(t, 2, out.Len())
	week, ok := out.ByTime(monday)
	assert.True(t, ok)
	q := week.(*series.Quote)
	assert.Equal(t, float64(10), q.Open)
	assert.Equal(t, float64(16), q.High)
	assert.Equal(t, float64(14), q.Close)
	assert.Equal(t, float64(180), q.Volume)
}

func TestEngine_CarriesLoadedState(t *testing.T) {
	src := series.New(freq.Daily)
	src.MarkLoaded()

	out := NewEngine(nil).DeriveFrom(src, freq.Weekly, time.UTC)
	assert.True(t, out.Loaded())

	fresh := NewEngine(nil).DeriveFrom(series.New(freq.Daily), freq.Weekly, time.UTC)
	assert.False(t, fresh.Loaded())
}

func TestEngine_NonQuoteBarsYieldNothing(t *testing.T) {
	src := series.New(freq.OneMinute)
	base := time.Date(2024, 3, 8, 9, 30, 0, 0, time.UTC)
	src.Upsert(&series.MoneyFlow{Timestamp: base, InVolume: 10})
	src.Upsert(&series.MoneyFlow{Timestamp: base.Add(time.Minute), OutVolume: 5})

	out := NewEngine(nil).DeriveFrom(src, freq.FiveMinutes, time.UTC)

	assert.Equal(t, 0, out.Len())
}
