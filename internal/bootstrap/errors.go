package bootstrap

import "fmt"

// FatalError is the terminal error class of the bootstrap: it is logged
// and the process exits with code 1. Nothing in the bootstrap retries;
// every failure is an operator-configuration problem.
type FatalError struct {
	// Stage is the last state the pipeline completed before failing.
	Stage State
	Err   error
}

// Error implements error.
func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal bootstrap error after %s: %v", e.Stage, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *FatalError) Unwrap() error { return e.Err }

func fatal(stage State, err error) *FatalError {
	return &FatalError{Stage: stage, Err: err}
}
