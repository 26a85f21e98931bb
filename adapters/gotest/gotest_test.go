package gotest

import (
	"testing"

	"github.com/rlch/bspec"
)

type counting struct {
	bspec.Scenario

	value int
}

func (s *counting) When_counting_up() {
	s.Establish = func() { s.value = 0 }
	s.Because = func() { s.value++ }
	s.It("should have counted once", func() {
		if s.value != 1 {
			panic("count drifted")
		}
	})
}

func TestRun_PassingScenario(t *testing.T) {
	Run(t, &counting{})
}

type deferredWork struct {
	bspec.Scenario
}

func (s *deferredWork) When_work_is_pending() {
	s.It("will exist someday", bspec.Pending)
}

func TestRun_PendingScenarioDoesNotFail(t *testing.T) {
	Run(t, &deferredWork{})
}
