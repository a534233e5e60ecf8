package market

import (
	"slices"

	"github.com/sanyaade-fintechnology/aiotrade/pkg/freq"
)

// DataSourceContract binds one (instrument, frequency) pair to a feed
// service. The contract carries the symbol the upstream source knows the
// instrument by, which may differ from the local symbol.
type DataSourceContract struct {
	SourceSymbol string
	Service      string
	Freq         freq.Frequency
	Refreshable  bool

	// SupportedFreqs lists the frequencies this contract's source can also
	// serve; used when resolving a contract for a frequency that has no
	// explicit one.
	SupportedFreqs []freq.Frequency
}

// Supports reports whether the contract's source can serve frequency f.
func (c *DataSourceContract) Supports(f freq.Frequency) bool {
	if c.Freq == f {
		return true
	}
	return slices.Contains(c.SupportedFreqs, f)
}

// CloneFor returns a copy of the contract substituted with the target
// frequency. Clones are never refreshable: only the explicitly declared
// contract keeps its refresh subscription.
func (c *DataSourceContract) CloneFor(f freq.Frequency) *DataSourceContract {
	clone := *c
	clone.Freq = f
	clone.Refreshable = false
	return &clone
}
