package series

import (
	"sort"
	"sync"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

// Event describes the time window touched by a series mutation.
type Event struct {
	From time.Time
	To   time.Time
}

// Listener observes series mutations.
type Listener func(Event)

// Series is an append-only, time-indexed, randomly-accessible ordered
// sequence of bars for one (instrument, frequency) pair. It grows
// monotonically in time key but accepts out-of-order bulk inserts during
// load. All methods are safe for concurrent use.
type Series struct {
	frequency freq.Frequency

	mu        sync.RWMutex
	bars      []Bar
	index     map[int64]int // unix-milli stamp -> position in bars
	listeners []Listener

	loaded    bool
	inLoading bool
}

// New creates an empty series for the given frequency.
func New(f freq.Frequency) *Series {
	return &Series{
		frequency: f,
		index:     make(map[int64]int),
	}
}

// Freq returns the sampling frequency of the series.
func (s *Series) Freq() freq.Frequency {
	return s.frequency
}

// Len returns the number of bars.
func (s *Series) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bars)
}

// At returns the i-th bar in chronological order.
func (s *Series) At(i int) Bar {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.bars) {
		return nil
	}
	return s.bars[i]
}

// ByTime returns the bar keyed by the given rounded time.
func (s *Series) ByTime(t time.Time) (Bar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[t.UnixMilli()]
	if !ok {
		return nil, false
	}
	return s.bars[i], true
}

// Earliest returns the chronologically first bar time.
func (s *Series) Earliest() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.bars) == 0 {
		return time.Time{}, false
	}
	return s.bars[0].Stamp(), true
}

// Latest returns the chronologically last bar time.
func (s *Series) Latest() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.bars) == 0 {
		return time.Time{}, false
	}
	return s.bars[len(s.bars)-1].Stamp(), true
}

// Range returns the bars with from <= stamp <= to, in chronological order.
func (s *Series) Range(from, to time.Time) []Bar {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lo := sort.Search(len(s.bars), func(i int) bool {
		return !s.bars[i].Stamp().Before(from)
	})
	hi := sort.Search(len(s.bars), func(i int) bool {
		return s.bars[i].Stamp().After(to)
	})
	if lo >= hi {
		return nil
	}

	out := make([]Bar, hi-lo)
	copy(out, s.bars[lo:hi])
	return out
}

// Upsert inserts a bar keeping chronological order, replacing any existing
// bar with the same stamp, and notifies listeners with the bar's window.
func (s *Series) Upsert(b Bar) {
	s.mu.Lock()
	s.upsertLocked(b)
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, Event{From: b.Stamp(), To: b.Stamp()})
}

// Merge bulk-inserts bars in any input order and notifies listeners once
// with the merged window. Used during load, where persisted history may
// arrive ascending or descending.
func (s *Series) Merge(bars []Bar) {
	if len(bars) == 0 {
		return
	}

	s.mu.Lock()
	for _, b := range bars {
		s.upsertLocked(b)
	}
	from, to := bars[0].Stamp(), bars[0].Stamp()
	for _, b := range bars[1:] {
		if b.Stamp().Before(from) {
			from = b.Stamp()
		}
		if b.Stamp().After(to) {
			to = b.Stamp()
		}
	}
	listeners := s.snapshotListeners()
	s.mu.Unlock()

	notify(listeners, Event{From: from, To: to})
}

// Clear drops all bars, keeping listeners and frequency.
func (s *Series) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bars = nil
	s.index = make(map[int64]int)
	s.loaded = false
	s.inLoading = false
}

// OnUpdate registers a listener invoked after every mutation with the
// touched window. Listeners run on the mutating goroutine, outside the
// series lock.
func (s *Series) OnUpdate(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// MarkInLoading flags a load in progress.
func (s *Series) MarkInLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inLoading = true
}

// MarkLoaded flags the series as fully loaded and ends any in-progress load.
func (s *Series) MarkLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.inLoading = false
}

// Loaded reports whether history load has completed.
func (s *Series) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// InLoading reports whether a history load is in progress.
func (s *Series) InLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inLoading
}

func (s *Series) upsertLocked(b Bar) {
	key := b.Stamp().UnixMilli()
	if i, ok := s.index[key]; ok {
		s.bars[i] = b
		return
	}

	// Common case: append in time order.
	if n := len(s.bars); n == 0 || s.bars[n-1].Stamp().Before(b.Stamp()) {
		s.bars = append(s.bars, b)
		s.index[key] = n
		return
	}

	pos := sort.Search(len(s.bars), func(i int) bool {
		return s.bars[i].Stamp().After(b.Stamp())
	})
	s.bars = append(s.bars, nil)
	copy(s.bars[pos+1:], s.bars[pos:])
	s.bars[pos] = b
	for i := pos; i < len(s.bars); i++ {
		s.index[s.bars[i].Stamp().UnixMilli()] = i
	}
}

func (s *Series) snapshotListeners() []Listener {
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func notify(listeners []Listener, ev Event) {
	for _, l := range listeners {
		l(ev)
	}
}
