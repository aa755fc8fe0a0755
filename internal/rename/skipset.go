package rename

import (
	"errors"
	"fmt"

	mapset "github.com/deckarep/golang-set"

	"github.com/tdb-alcorn/firrtl/internal/target"
)

// ErrNonLocalTarget is returned when a skip set is built from a target that
// carries an instance path. The engine only manipulates names inside the
// module that declares them, so non-local targets are a configuration error,
// rejected before any traversal starts.
var ErrNonLocalTarget = errors.New("rename: skip target is not local")

// SkipSet is a set of local targets whose names pass through a run
// untouched. Skipping is exact-match only: skipping a module does not skip
// its ports or declarations.
type SkipSet struct {
	keys mapset.Set
}

// NewSkipSet validates and collects skip targets. Any non-local entry fails
// the whole construction.
func NewSkipSet(targets ...target.Target) (*SkipSet, error) {
	keys := mapset.NewSet()
	for _, t := range targets {
		if !t.IsLocal() {
			return nil, fmt.Errorf("%w: %s", ErrNonLocalTarget, t.Key())
		}
		keys.Add(t.Key())
	}
	return &SkipSet{keys: keys}, nil
}

// Contains reports whether t is skipped. A nil skip set skips nothing.
func (s *SkipSet) Contains(t target.Target) bool {
	if s == nil {
		return false
	}
	return s.keys.Contains(t.Key())
}
