package market

import (
	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

// Instrument is one tradable security. An instrument with a zero ID is
// transient: it has not been persisted yet and daily snapshot buckets must
// not be created for it.
type Instrument struct {
	ID          int64
	Symbol      string
	Exchange    *Exchange
	DefaultFreq freq.Frequency

	// Contracts is the ordered set of per-frequency data-source contracts.
	Contracts []*DataSourceContract
}

// Persisted reports whether the instrument exists in the persisted store.
func (i *Instrument) Persisted() bool {
	return i.ID != 0
}

// ContractFor returns the explicit contract declared for the given frequency.
func (i *Instrument) ContractFor(f freq.Frequency) (*DataSourceContract, bool) {
	for _, c := range i.Contracts {
		if c.Freq == f {
			return c, true
		}
	}
	return nil, false
}
