package bump

import (
	"errors"

	"github.com/kolkov/bumplocal/internal/bump/arena"
)

// ErrOutstandingHandles is returned by ResetAll when other handle clones
// still exist. It is never retried automatically: the caller must release
// the remaining clones and try again.
var ErrOutstandingHandles = errors.New("bump: reset is only allowed when a single handle exists")

// ErrAllocationLimit is the arena engine's allocation-ceiling error,
// surfaced verbatim by every allocation path. Compare with errors.Is.
var ErrAllocationLimit = arena.ErrAllocationLimit
