package sidecar

import (
	"github.com/hashicorp/go-multierror"
)

// Report summarizes one synchronization pass. It is informational: the
// engine degrades on every malformed input rather than failing, so the
// accumulated problems never indicate an aborted pass.
type Report struct {
	// Libraries is the number of dependencies resolved.
	Libraries int

	// Minted counts dependencies that received a freshly minted identity.
	Minted int

	// ForeignSidecarsRead counts identities taken from an adjacent
	// sidecar document.
	ForeignSidecarsRead int

	// Problems aggregates non-fatal resolution notes, such as adjacent
	// sidecars that exist but could not be read.
	Problems *multierror.Error
}

// Err returns the aggregated problems, or nil when the pass was clean.
func (r *Report) Err() error {
	if r == nil {
		return nil
	}
	return r.Problems.ErrorOrNil()
}
