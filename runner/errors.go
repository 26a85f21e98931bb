package runner

import "errors"

// Sentinel errors for the runner package.
var (
	// ErrMaxFailures is returned when the max failure limit is reached.
	ErrMaxFailures = errors.New("runner: max failures reached")

	// ErrNoScenarios is returned when Run is called with nothing to run.
	ErrNoScenarios = errors.New("runner: no scenarios given")

	// Test errors for use in unit tests.
	errTestStop = errors.New("test: stop")
	errTestFail = errors.New("test: fail")
)
