package shypn

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotEnabled reports an attempt to fire a transition whose
	// preconditions do not hold at the moment of firing.
	ErrNotEnabled = errors.New("transition not enabled")
	// ErrInvalidParameter reports a property outside its legal range, such
	// as a non-positive rate or arc weight.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUninitialized reports use of a controller before Initialize.
	ErrUninitialized = errors.New("controller not initialized")
	// ErrHalted reports use of a controller that aborted after an invariant
	// violation.
	ErrHalted = errors.New("controller halted")
)

// StructuralError aggregates the violations found while validating a net
// against the bipartite graph rules.
type StructuralError struct {
	Violations []string
}

func (e *StructuralError) Error() string {
	switch len(e.Violations) {
	case 0:
		return "structural error"
	case 1:
		return "structural error: " + e.Violations[0]
	default:
		return fmt.Sprintf("structural error: %d violations: %s",
			len(e.Violations), strings.Join(e.Violations, "; "))
	}
}
