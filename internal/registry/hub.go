package registry

import (
	"sync"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Hub resolves the registry owning a symbol, creating registries lazily for
// instruments present in the universe.
type Hub struct {
	universe *market.Universe
	deriver  Deriver
	log      logger.Interface

	mu   sync.Mutex
	regs map[string]*Registry
}

// NewHub creates a hub over the given instrument universe.
func NewHub(universe *market.Universe, deriver Deriver, log logger.Interface) *Hub {
	return &Hub{
		universe: universe,
		deriver:  deriver,
		log:      log,
		regs:     make(map[string]*Registry),
	}
}

// For returns the registry for symbol, creating it on first use. Unknown
// symbols resolve to nothing.
func (h *Hub) For(symbol string) (*Registry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if r, ok := h.regs[symbol]; ok {
		return r, true
	}
	inst, ok := h.universe.Lookup(symbol)
	if !ok {
		return nil, false
	}
	r := New(inst, h.deriver, h.log)
	h.regs[symbol] = r
	return r, true
}

// All returns every registry created so far.
func (h *Hub) All() []*Registry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]*Registry, 0, len(h.regs))
	for _, r := range h.regs {
		out = append(out, r)
	}
	return out
}
