package core

import "time"

// Outcome classifies one measured repetition.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Action describes one benchmarked operation. Actions are built once
// when the catalog is constructed and never mutated during a run.
type Action struct {
	// Name uniquely identifies the action; it labels output lines and
	// drives filtering.
	Name string
	// Category overrides the process-wide default category when set.
	Category string
	// Environment overrides the configured benchmark environment when set.
	Environment string

	Warmups     int
	Repetitions int
	// Operations is the semantic unit-of-work multiplier per repetition
	// (e.g. "indexes N documents"). Zero means 1.
	Operations int

	Op Operation
}

// Ops returns the operation multiplier, treating zero as 1.
func (a Action) Ops() int {
	if a.Operations < 1 {
		return 1
	}
	return a.Operations
}

// Record is one observation of a measured repetition. Exactly one
// Record exists per repetition regardless of outcome; warmups never
// produce one.
type Record struct {
	// Start is the wall-clock instant the measurement hook was invoked.
	Start time.Time
	// Duration is the monotonic elapsed time of the full invocation.
	Duration time.Duration
	Outcome  Outcome
	// StatusCode is zero when no response was received.
	StatusCode int
}
