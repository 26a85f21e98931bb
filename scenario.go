package bspec

import "reflect"

// Scenario is the base every specification embeds. It owns the four deferred
// slots an example method populates during discovery and the registry of
// named conditions collected during one example's discovery call.
//
// The slots are overwritten by each example method and cleared after each
// example is compiled, so state never bleeds between examples.
type Scenario struct {
	// Establish initializes state for one example. Runs first.
	Establish func()

	// Because performs the behavior under observation. Runs after Establish.
	Because func()

	// Verify is the example's single anonymous assertion. Mutually exclusive
	// with named conditions registered through It.
	Verify func()

	// Cleanup runs after the example's conditions.
	Cleanup func()

	conditions []registration
}

// registration is one named condition harvested during discovery.
type registration struct {
	name   string
	action func()
}

// It registers a named condition for the example currently being discovered.
// Conditions run in registration order during execution, never during
// discovery.
func (s *Scenario) It(name string, action func()) {
	s.conditions = append(s.conditions, registration{name: name, action: action})
}

// WordSeparator is the character that method names must contain to be
// considered by the classifier, and that rendering replaces with a space.
// Scenarios may shadow this method to change the convention.
func (s *Scenario) WordSeparator() string { return DefaultSeparator }

// base gives the engine access to the embedded Scenario. Its presence in the
// promoted method set is also what marks a type as a scenario.
func (s *Scenario) base() *Scenario { return s }

// resetSlots returns the scenario to its initial empty configuration.
func (s *Scenario) resetSlots() {
	s.Establish = nil
	s.Because = nil
	s.Verify = nil
	s.Cleanup = nil
	s.conditions = nil
}

// holder is satisfied by every pointer to a struct embedding Scenario.
type holder interface {
	base() *Scenario
	WordSeparator() string
}

// Skip marks a whole scenario type skipped when embedded:
//
//	type FlakyFeature struct {
//		bspec.Scenario
//		bspec.Skip
//	}
//
// Every example still appears in the transcript, but no user code runs and
// each condition reports "skipped".
type Skip struct{}

// Tagged narrows execution to the named example methods. When Tags returns
// at least one name, only matching example methods are compiled and the
// transcript opens with a tag banner.
type Tagged interface {
	Tags() []string
}

// Pending is the distinguished marker for a condition that is declared but
// not yet implemented. A condition bound to Pending is never invoked and
// reports "pending".
var Pending = func() {}

var pendingPC = reflect.ValueOf(Pending).Pointer()

func isPending(fn func()) bool {
	return fn != nil && reflect.ValueOf(fn).Pointer() == pendingPC
}
