package runner

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/bspec"
)

type passingSpec struct {
	bspec.Scenario

	value int
}

func (s *passingSpec) When_adding_two_positive_numbers() {
	s.Establish = func() { s.value = 0 }
	s.Because = func() { s.value = 1 + 2 }
	s.It("should equal 3", func() {
		if s.value != 3 {
			panic(fmt.Sprintf("got %d", s.value))
		}
	})
}

type failingSpec struct {
	bspec.Scenario
}

func (s *failingSpec) When_expectations_are_wrong() {
	s.Verify = func() { panic("always fails") }
}

type skippedSpec struct {
	bspec.Scenario
	bspec.Skip
}

func (s *skippedSpec) When_not_ready() {
	s.It("waits", func() {})
}

type brokenSpec struct {
	bspec.Scenario

	subject []int
}

func (s *brokenSpec) When_observing_eagerly() {
	_ = s.subject[3] // panics during discovery
}

func TestRunner_RunAccumulatesOutcomes(t *testing.T) {
	r := New()

	result, err := r.Run(context.Background(), &passingSpec{}, &failingSpec{}, &skippedSpec{})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	assert.False(t, result.Ok())

	assert.Contains(t, result.Conditions, "passingSpec/When_adding_two_positive_numbers/should equal 3")
}

func TestRunner_NoScenarios(t *testing.T) {
	_, err := New().Run(context.Background())
	assert.ErrorIs(t, err, ErrNoScenarios)
}

func TestRunner_StructuralErrorBecomesErrorEvent(t *testing.T) {
	handler := &recordingHandler{}

	r := New(WithHandler(handler))

	result, err := r.Run(context.Background(), &brokenSpec{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Errors)

	var sawError bool

	for _, e := range handler.events {
		if e.Action == ActionError {
			sawError = true

			assert.Equal(t, []string{"brokenSpec"}, e.Path)
			require.Error(t, e.Error)

			var werr *bspec.WrappingError
			assert.ErrorAs(t, e.Error, &werr)
		}
	}

	assert.True(t, sawError)
}

func TestRunner_FailFastStopsBetweenScenarios(t *testing.T) {
	r := New(WithFailFast(true))

	result, err := r.Run(context.Background(), &failingSpec{}, &passingSpec{})
	require.NoError(t, err)

	// The failing scenario completes its cycle; the passing one never runs.
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Passed)
}

func TestRunner_SelectorSkipsScenarios(t *testing.T) {
	r := New(WithSelector(`not skipped`))

	result, err := r.Run(context.Background(), &passingSpec{}, &skippedSpec{})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Passed)
	assert.Zero(t, result.Skipped)
}

func TestRunner_FilterDropsHandlerEventsButCounts(t *testing.T) {
	handler := &recordingHandler{}

	r := New(WithHandler(handler), WithFilter(`should equal 3`))

	result, err := r.Run(context.Background(), &passingSpec{}, &failingSpec{})
	require.NoError(t, err)

	// Everything is counted...
	assert.Equal(t, 2, result.Total)

	// ...but only matching condition events reach the handler.
	var terminal []Event

	for _, e := range handler.events {
		if e.Action.IsTerminal() {
			terminal = append(terminal, e)
		}
	}

	require.Len(t, terminal, 1)
	assert.Equal(t, "should equal 3", terminal[0].ConditionName())
}

func TestRunner_EmitsRunEventPerScenario(t *testing.T) {
	handler := &recordingHandler{}

	r := New(WithHandler(handler))

	_, err := r.Run(context.Background(), &passingSpec{})
	require.NoError(t, err)

	require.NotEmpty(t, handler.events)
	assert.Equal(t, ActionRun, handler.events[0].Action)
	assert.Equal(t, []string{"passingSpec"}, handler.events[0].Path)
}

func TestWithSelector_InvalidExpressionPanics(t *testing.T) {
	assert.Panics(t, func() {
		New(WithSelector(`not a ( valid expression`))
	})
}
