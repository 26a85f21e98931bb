package bspec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAction_InvokesExactlyOnce(t *testing.T) {
	count := 0
	a := newAction(func() { count++ })

	a.invoke()
	a.invoke()
	a.invoke()

	assert.Equal(t, 1, count)
}

func TestAction_NilSafe(t *testing.T) {
	var a *action

	assert.NotPanics(t, func() { a.invoke() })
	assert.Nil(t, newAction(nil))
}

func TestCondition_InvokesExactlyOnce(t *testing.T) {
	count := 0
	c := &Condition{Name: "counts", fn: func() { count++ }}

	c.invoke()
	c.invoke()

	assert.Equal(t, 1, count)
	assert.False(t, c.Failed())
	assert.NoError(t, c.Err())
}

func TestCondition_CapturesPanicAsFailure(t *testing.T) {
	c := &Condition{Name: "explodes", fn: func() { panic("boom") }}

	assert.NotPanics(t, c.invoke)

	require.True(t, c.Failed())
	assert.EqualError(t, c.Err(), "boom")
	assert.NotEmpty(t, c.failure.Stack)
	assert.Equal(t, "explodes", c.failure.Condition)
}

func TestCondition_PanicWithErrorKeepsError(t *testing.T) {
	sentinel := errors.New("underlying")
	c := &Condition{Name: "wraps", fn: func() { panic(sentinel) }}

	c.invoke()

	require.True(t, c.Failed())
	assert.ErrorIs(t, c.Err(), sentinel)
}

func TestCondition_FailureIsSticky(t *testing.T) {
	c := &Condition{Name: "sticky", fn: func() { panic("first") }}

	c.invoke()
	first := c.failure

	c.invoke()

	assert.Same(t, first, c.failure)
}

func TestCondition_Pending(t *testing.T) {
	pending := &Condition{Name: "later", fn: Pending}
	assert.True(t, pending.pending())

	live := &Condition{Name: "now", fn: func() {}}
	assert.False(t, live.pending())
}

func TestIsPending(t *testing.T) {
	assert.True(t, isPending(Pending))
	assert.False(t, isPending(nil))
	assert.False(t, isPending(func() {}))
}
