package bspec

import (
	"fmt"
	"runtime/debug"
)

// action guards a callable so it executes at most once per cycle. Pre- and
// post-actions are actions; act methods are not (they run fresh for every
// example).
type action struct {
	fn   func()
	done bool
}

func newAction(fn func()) *action {
	if fn == nil {
		return nil
	}

	return &action{fn: fn}
}

// invoke runs the callable the first time and is a no-op afterwards. The
// guard flips before the call so reentrant invocation cannot recurse.
func (a *action) invoke() {
	if a == nil || a.done {
		return
	}

	a.done = true
	a.fn()
}

// Condition is one named assertion. Invocation is guarded to run at most
// once; the first captured failure is sticky.
type Condition struct {
	// Name is the free text the author registered the condition under, or
	// the example method name for a verify-derived condition.
	Name string

	fn      func()
	invoked bool
	failure *Failure
}

// invoke runs the condition's action once, recovering any panic into the
// sticky failure.
func (c *Condition) invoke() {
	if c.invoked {
		return
	}

	c.invoked = true

	defer func() {
		if r := recover(); r != nil && c.failure == nil {
			c.failure = newFailure(c.Name, r, debug.Stack())
		}
	}()

	c.fn()
}

// pending reports whether the condition is bound to the Pending marker.
func (c *Condition) pending() bool { return isPending(c.fn) }

// Failed reports whether an invocation captured a failure.
func (c *Condition) Failed() bool { return c.failure != nil }

// Err returns the captured failure cause, or nil when the condition passed
// or has not run.
func (c *Condition) Err() error {
	if c.failure == nil {
		return nil
	}

	return c.failure.Cause
}

// Failure is a captured assertion failure: the recovered value and the stack
// at the point of recovery.
type Failure struct {
	Condition string
	Cause     error
	Stack     []byte
}

func newFailure(condition string, recovered any, stack []byte) *Failure {
	cause, ok := recovered.(error)
	if !ok {
		cause = fmt.Errorf("%v", recovered)
	}

	return &Failure{Condition: condition, Cause: cause, Stack: stack}
}
