package market

import "sync"

// Universe is the set of instruments this process serves, keyed by symbol.
type Universe struct {
	mu          sync.RWMutex
	instruments map[string]*Instrument
}

// NewUniverse creates an empty universe.
func NewUniverse() *Universe {
	return &Universe{instruments: make(map[string]*Instrument)}
}

// Add registers an instrument, replacing any previous one for the symbol.
func (u *Universe) Add(inst *Instrument) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.instruments[inst.Symbol] = inst
}

// Lookup returns the instrument for symbol, if known.
func (u *Universe) Lookup(symbol string) (*Instrument, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	inst, ok := u.instruments[symbol]
	return inst, ok
}

// Symbols returns the symbols currently registered.
func (u *Universe) Symbols() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	symbols := make([]string, 0, len(u.instruments))
	for s := range u.instruments {
		symbols = append(symbols, s)
	}
	return symbols
}
