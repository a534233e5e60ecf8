package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

func quoteAt(ms int64, close float64) *Quote {
	return &Quote{Timestamp: time.UnixMilli(ms).UTC(), Close: close}
}

func TestSeries_UpsertKeepsOrder(t *testing.T) {
	s := New(freq.OneMinute)

	s.Upsert(quoteAt(200, 2))
	s.Upsert(quoteAt(100, 1))
	s.Upsert(quoteAt(300, 3))

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, int64(100), s.At(0).Stamp().UnixMilli())
	assert.Equal(t, int64(200), s.At(1).Stamp().UnixMilli())
	assert.Equal(t, int64(300), s.At(2).Stamp().UnixMilli())
}

func TestSeries_UpsertReplacesSameStamp(t *testing.T) {
	s := New(freq.OneMinute)

	s.Upsert(quoteAt(100, 1))
	s.Upsert(quoteAt(100, 9))

	assert.Equal(t, 1, s.Len())
	b, ok := s.ByTime(time.UnixMilli(100).UTC())
	assert.True(t, ok)
	assert.Equal(t, float64(9), b.(*Quote).Close)
}

func TestSeries_MergeOutOfOrder(t *testing.T) {
	s := New(freq.OneMinute)

	// Descending input, as a store may return it.
	s.Merge([]Bar{quoteAt(300, 3), quoteAt(200, 2), quoteAt(100, 1)})

	earliest, ok := s.Earliest()
	assert.True(t, ok)
	assert.Equal(t, int64(100), earliest.UnixMilli())

	latest, ok := s.Latest()
	assert.True(t, ok)
	assert.Equal(t, int64(300), latest.UnixMilli())
}

func TestSeries_MergeNotifiesOnceWithMergedWindow(t *testing.T) {
	s := New(freq.OneMinute)

	var events []Event
	s.OnUpdate(func(ev Event) {
		events = append(events, ev)
	})

	s.Merge([]Bar{quoteAt(300, 3), quoteAt(100, 1)})

	assert.Len(t, events, 1)
	assert.Equal(t, int64(100), events[0].From.UnixMilli())
	assert.Equal(t, int64(300), events[0].To.UnixMilli())
}

func TestSeries_Range(t *testing.T) {
	s := New(freq.OneMinute)
	for i := int64(1); i <= 5; i++ {
		s.Upsert(quoteAt(i*100, float64(i)))
	}

	bars := s.Range(time.UnixMilli(200).UTC(), time.UnixMilli(400).UTC())
	assert.Len(t, bars, 3)
	assert.Equal(t, int64(200), bars[0].Stamp().UnixMilli())
	assert.Equal(t, int64(400), bars[2].Stamp().UnixMilli())

	assert.Nil(t, s.Range(time.UnixMilli(600).UTC(), time.UnixMilli(700).UTC()))
}

func TestSeries_LoadFlags(t *testing.T) {
	s := New(freq.Daily)

	assert.False(t, s.Loaded())
	assert.False(t, s.InLoading())

	s.MarkInLoading()
	assert.True(t, s.InLoading())

	s.MarkLoaded()
	assert.True(t, s.Loaded())
	assert.False(t, s.InLoading())
}

func TestSeries_Clear(t *testing.T) {
	s := New(freq.Daily)
	s.Upsert(quoteAt(100, 1))
	s.MarkLoaded()

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Loaded())
	_, ok := s.ByTime(time.UnixMilli(100).UTC())
	assert.False(t, ok)
}
