// Package bspec is a convention-driven behavior-specification engine.
//
// A specification is an ordinary struct that embeds [Scenario]. Its methods
// declare their role through their names: Given_/Before_/Arrange_ methods
// arrange state, Act_/Do_ methods exercise the subject, After_/Finally_
// methods tear down, and When_/It_/Should_/Then_/Assert_ methods are
// examples. Example methods do not assert directly; they populate the four
// deferred slots (Establish, Because, Verify, Cleanup) and register named
// conditions with [Scenario.It]. The engine discovers the methods by
// reflection, compiles them into an ordered example model, executes the
// model under failure isolation, and renders an indented transcript.
//
//	type AddingNumbers struct {
//		bspec.Scenario
//		value int
//	}
//
//	func (s *AddingNumbers) When_adding_two_positive_numbers() {
//		s.Establish = func() { s.value = 0 }
//		s.Because = func() { s.value = 1 + 2 }
//		s.It("should equal 3", func() {
//			if s.value != 3 {
//				panic(fmt.Sprintf("got %d", s.value))
//			}
//		})
//	}
//
// Assertion failures never propagate: each condition records its first
// failure and the cycle reports all of them together, invoking the
// configured failure hook once when at least one condition failed.
package bspec
