package snapshot

import (
	"sync"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/bus"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/moneyflow"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/quote"
	"github.com/sanyaade-fintechnology/aiotrade/internal/infrastructure/questdb/tick"
	"github.com/sanyaade-fintechnology/aiotrade/internal/registry"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Set holds one tracker per instrument symbol, all sharing the same flush
// queues and stores.
type Set struct {
	quotes quote.Store
	flows  moneyflow.Store
	ticks  tick.Store
	events bus.Bus
	quoteQ *Queue[quote.BatchEntry]
	flowQ  *Queue[moneyflow.BatchEntry]
	log    logger.Interface

	mu       sync.Mutex
	trackers map[string]*Tracker
}

// NewSet creates an empty tracker set over the shared queues.
func NewSet(
	quotes quote.Store,
	flows moneyflow.Store,
	ticks tick.Store,
	events bus.Bus,
	quoteQ *Queue[quote.BatchEntry],
	flowQ *Queue[moneyflow.BatchEntry],
	log logger.Interface,
) *Set {
	return &Set{
		quotes:   quotes,
		flows:    flows,
		ticks:    ticks,
		events:   events,
		quoteQ:   quoteQ,
		flowQ:    flowQ,
		log:      log,
		trackers: make(map[string]*Tracker),
	}
}

// For returns the tracker bound to reg's instrument, creating it on first
// use.
func (s *Set) For(reg *registry.Registry) *Tracker {
	s.mu.Lock()
	defer s.mu.Unlock()

	symbol := reg.Instrument().Symbol
	if t, ok := s.trackers[symbol]; ok {
		return t
	}
	t := NewTracker(reg, s.quotes, s.flows, s.ticks, s.events, s.quoteQ, s.flowQ, s.log)
	s.trackers[symbol] = t
	return t
}
