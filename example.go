package bspec

// Example is one compiled scenario method: its declared name, its ordered
// pre-actions, its conditions, its post-action, and whether the declaring
// type is skipped. Immutable after compilation except for the failures
// recorded on its conditions during execution.
type Example struct {
	// Name is the raw example method name.
	Name string

	// pre holds establish then because, when set.
	pre []*action

	// post holds cleanup, when set.
	post *action

	// verify is the single condition synthesized from the Verify slot,
	// named after the example. Mutually exclusive with conditions; when
	// both are non-empty the executor refuses the example with an
	// AmbiguousStyleError before running anything.
	verify *Condition

	// conditions are the named conditions in registration order.
	conditions []*Condition

	// skipped is inherited from the declaring type.
	skipped bool
}

// Conditions returns the example's conditions: the verify-derived one when
// present, else the named ones.
func (e *Example) Conditions() []*Condition {
	if e.verify != nil && len(e.conditions) == 0 {
		return []*Condition{e.verify}
	}

	return e.conditions
}

// failures collects the example's captured failures in evaluation order.
func (e *Example) failures() []*Failure {
	var fs []*Failure

	if e.verify != nil && e.verify.failure != nil {
		fs = append(fs, e.verify.failure)
	}

	for _, c := range e.conditions {
		if c.failure != nil {
			fs = append(fs, c.failure)
		}
	}

	return fs
}
