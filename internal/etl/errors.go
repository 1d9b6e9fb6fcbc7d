package etl

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure classes the pipeline distinguishes.
// Per-record transform problems are not errors in this sense; they live
// inside a MappingResult and never abort a run.
var (
	// ErrSourceUnavailable means the legacy store could not be reached or read.
	ErrSourceUnavailable = errors.New("legacy source unavailable")

	// ErrTargetUnavailable means the target store could not be reached.
	ErrTargetUnavailable = errors.New("target store unavailable")

	// ErrLookupConflict means two different target ids were registered for
	// the same (kind, legacy id) pair.
	ErrLookupConflict = errors.New("lookup conflict")

	// ErrValidationMismatch means post-run validation found a different
	// number of migrated rows than the orchestrator created.
	ErrValidationMismatch = errors.New("post-validation count mismatch")
)

// PhaseError wraps a fatal error with the entity and phase it occurred in,
// plus the statistics accumulated up to that point.
type PhaseError struct {
	Entity string
	Phase  Phase
	Stats  *Stats
	Err    error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s migration failed in phase %s: %v", e.Entity, e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error { return e.Err }
