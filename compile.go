package bspec

import (
	"fmt"
	"reflect"
)

// compiler performs phase 1 of the two-phase build: it invokes each selected
// example method once, harvesting whatever the method deposited in the
// scenario's slots and condition registry, and freezes the harvest into an
// Example. Phase 2 — actually running the harvested work — belongs to the
// executor.
type compiler struct {
	target reflect.Value
	base   *Scenario
	class  *classification
	tags   []string
}

// compile builds the cycle's example list. The only user code that runs here
// is the example method bodies themselves; a panic from one of them is a
// structural error (the wrapping contract), not an assertion failure.
func (c *compiler) compile() ([]*Example, error) {
	selected := c.class.selectExamples(c.tags)
	examples := make([]*Example, 0, len(selected))

	for _, m := range selected {
		c.base.resetSlots()

		if err := c.discover(m); err != nil {
			c.base.resetSlots()

			return nil, err
		}

		examples = append(examples, c.freeze(m))
	}

	// Leave no slot populated for the next phase.
	c.base.resetSlots()

	return examples, nil
}

// discover invokes one example method, converting a direct panic into a
// WrappingError.
func (c *compiler) discover(m method) (err error) {
	defer func() {
		if r := recover(); r != nil {
			cause, ok := r.(error)
			if !ok {
				cause = fmt.Errorf("%v", r)
			}

			err = &WrappingError{Method: m.name, Cause: cause}
		}
	}()

	c.target.Method(m.index).Call(nil)

	return nil
}

// freeze snapshots the slots and registry into an immutable Example. When
// both Verify and named conditions were declared, both are recorded; the
// executor surfaces the ambiguity before any action runs.
func (c *compiler) freeze(m method) *Example {
	ex := &Example{
		Name:    m.name,
		skipped: c.class.skipped,
	}

	if c.base.Establish != nil {
		ex.pre = append(ex.pre, newAction(c.base.Establish))
	}

	if c.base.Because != nil {
		ex.pre = append(ex.pre, newAction(c.base.Because))
	}

	ex.post = newAction(c.base.Cleanup)

	if c.base.Verify != nil {
		ex.verify = &Condition{Name: m.name, fn: c.base.Verify}
	}

	for _, r := range c.base.conditions {
		ex.conditions = append(ex.conditions, &Condition{Name: r.name, fn: r.action})
	}

	return ex
}
