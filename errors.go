package bspec

import (
	"errors"
	"fmt"
)

// Sentinel errors.
var (
	// ErrConfigNotFound is returned when no .bspec.yaml is found.
	ErrConfigNotFound = errors.New("bspec: no .bspec.yaml found")

	// ErrNotScenario is returned when the execution target is not a pointer
	// to a struct embedding Scenario.
	ErrNotScenario = errors.New("bspec: target must be a pointer to a struct embedding bspec.Scenario")
)

// WrappingError reports an example method that ran observation or assertion
// code eagerly during discovery. Everything an example observes must live
// inside Establish, Because, Verify, Cleanup, or a named condition; the
// discovery pass only harvests that deferred work.
type WrappingError struct {
	Method string
	Cause  error
}

func (e *WrappingError) Error() string {
	return fmt.Sprintf(
		"bspec: example %s panicked during discovery: %v (wrap observation and assertion code in Establish/Because/Verify/Cleanup or a named condition)",
		e.Method, e.Cause,
	)
}

func (e *WrappingError) Unwrap() error { return e.Cause }

// AmbiguousStyleError reports an example that set Verify and also registered
// named conditions. An example uses one assertion style, not both.
type AmbiguousStyleError struct {
	Example string
}

func (e *AmbiguousStyleError) Error() string {
	return fmt.Sprintf("bspec: example %s declares both Verify and named conditions", e.Example)
}
