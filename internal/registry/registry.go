// Package registry owns the per-instrument frequency -> series maps. It
// guarantees exactly one live series per (instrument, frequency) pair,
// including under construction races.
package registry

import (
	"sync"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/market"
	"github.com/sanyaade-fintechnology/aiotrade/internal/domain/series"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/logger"
)

// Deriver builds a series at a derived frequency by resampling an existing
// source series. A nil result means the target frequency stays unresolved.
type Deriver interface {
	DeriveFrom(src *series.Series, target freq.Frequency, loc *time.Location) *series.Series
}

// Indicator is an externally registered computation bound to this
// instrument's series. The registry only tracks registrations; computation
// happens in the consumer.
type Indicator interface {
	Compute(from, to time.Time)
}

// Registry maps frequencies to series for one instrument.
type Registry struct {
	inst    *market.Instrument
	deriver Deriver
	log     logger.Interface

	// mu is the instrument's cache lock: it serializes every read and
	// mutation of the maps below.
	mu         sync.Mutex
	quoteSers  map[freq.Frequency]*series.Series
	flowSers   map[freq.Frequency]*series.Series
	infoSer    *series.Series
	realtime   *series.Series
	contracts  map[freq.Frequency]*market.DataSourceContract
	indicators map[string]Indicator
}

// New creates a registry for the instrument. deriver may be nil, in which
// case only base frequencies resolve.
func New(inst *market.Instrument, deriver Deriver, log logger.Interface) *Registry {
	return &Registry{
		inst:       inst,
		deriver:    deriver,
		log:        log,
		quoteSers:  make(map[freq.Frequency]*series.Series),
		flowSers:   make(map[freq.Frequency]*series.Series),
		contracts:  make(map[freq.Frequency]*market.DataSourceContract),
		indicators: make(map[string]Indicator),
	}
}

// Instrument returns the owning instrument.
func (r *Registry) Instrument() *market.Instrument {
	return r.inst
}

// GetOrCreate returns the quote series for the given frequency, building it
// on first demand. Base frequencies are constructed directly; any other
// frequency is resampled from its base series. Repeated calls return the
// same instance. Returns nil when a derived frequency's base cannot be
// obtained: the frequency stays unresolved, it is not cached as a failure.
func (r *Registry) GetOrCreate(f freq.Frequency) *series.Series {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.getOrCreateLocked(f)
}

func (r *Registry) getOrCreateLocked(f freq.Frequency) *series.Series {
	if f == freq.OneSecond {
		return r.realtimeLocked()
	}
	if s, ok := r.quoteSers[f]; ok {
		return s
	}

	if f.IsBase() {
		s := series.New(f)
		r.quoteSers[f] = s
		return s
	}

	src := r.getOrCreateLocked(f.Source())
	if src == nil || r.deriver == nil {
		return nil
	}
	derived := r.deriver.DeriveFrom(src, f, r.inst.Exchange.Location)
	if derived == nil {
		return nil
	}
	r.quoteSers[f] = derived
	return derived
}

// Realtime returns the second-frequency series singleton, constructing it on
// first use. Construction is double-checked under the cache lock so
// contending callers cannot produce two live instances.
func (r *Registry) Realtime() *series.Series {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.realtimeLocked()
}

func (r *Registry) realtimeLocked() *series.Series {
	if r.realtime == nil {
		if s, ok := r.quoteSers[freq.OneSecond]; ok {
			r.realtime = s
		} else {
			r.realtime = series.New(freq.OneSecond)
			r.quoteSers[freq.OneSecond] = r.realtime
		}
	}
	return r.realtime
}

// IsRealtime reports whether ser is this instrument's realtime series.
func (r *Registry) IsRealtime(ser *series.Series) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.realtime != nil && r.realtime == ser
}

// Put installs ser for the given frequency, overwriting any cached series.
func (r *Registry) Put(f freq.Frequency, ser *series.Series) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quoteSers[f] = ser
	if f == freq.OneSecond {
		r.realtime = ser
	}
}

// GetOrCreateMoneyFlow returns the money-flow series for a base frequency,
// constructing it on first demand. Money-flow series are never derived.
func (r *Registry) GetOrCreateMoneyFlow(f freq.Frequency) *series.Series {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.flowSers[f]; ok {
		return s
	}
	s := series.New(f)
	r.flowSers[f] = s
	return s
}

// InfoSer returns the instrument's info series singleton.
func (r *Registry) InfoSer() *series.Series {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.infoSer == nil {
		r.infoSer = series.New(r.inst.DefaultFreq)
	}
	return r.infoSer
}

// RegisterIndicator records an indicator registration under id.
func (r *Registry) RegisterIndicator(id string, ind Indicator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indicators[id] = ind
}

// Indicator returns the indicator registered under id.
func (r *Registry) Indicator(id string) (Indicator, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ind, ok := r.indicators[id]
	return ind, ok
}

// Reset drops every cached series, derived series, the realtime singleton,
// the info series and all indicator registrations. The persisted store is
// untouched; the next GetOrCreate builds a fresh series.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.quoteSers = make(map[freq.Frequency]*series.Series)
	r.flowSers = make(map[freq.Frequency]*series.Series)
	r.infoSer = nil
	r.realtime = nil
	r.indicators = make(map[string]Indicator)

	if r.log != nil {
		r.log.Info("registry reset", logger.Field{
			Key:   "symbol",
			Value: r.inst.Symbol,
		})
	}
}

// ResolveContract returns the data-source contract serving frequency f. An
// explicitly declared contract wins; otherwise, when the default-frequency
// contract declares support for f, a non-refreshable clone substituted with
// f is cached and returned.
func (r *Registry) ResolveContract(f freq.Frequency) (*market.DataSourceContract, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.inst.ContractFor(f); ok {
		return c, true
	}
	if c, ok := r.contracts[f]; ok {
		return c, true
	}

	def, ok := r.inst.ContractFor(r.inst.DefaultFreq)
	if !ok || !def.Supports(f) {
		return nil, false
	}

	clone := def.CloneFor(f)
	r.contracts[f] = clone
	return clone, true
}
