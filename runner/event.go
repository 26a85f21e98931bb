// Package runner orchestrates the execution of many scenarios and streams
// per-condition events to handlers and formatters.
package runner

import (
	"strings"
	"time"

	"github.com/rlch/bspec"
)

// Action represents the type of event.
type Action string

// Action constants for condition events.
const (
	ActionRun     Action = "run"
	ActionPass    Action = "passed"
	ActionFail    Action = "failed"
	ActionPending Action = "pending"
	ActionSkip    Action = "skipped"
	ActionError   Action = "error"
)

// IsTerminal returns true if this action ends a condition.
func (a Action) IsTerminal() bool {
	return a == ActionPass || a == ActionFail || a == ActionPending || a == ActionSkip || a == ActionError
}

// actionFor maps an engine status to an event action.
func actionFor(status bspec.Status) Action {
	switch status {
	case bspec.StatusPassed:
		return ActionPass
	case bspec.StatusFailed:
		return ActionFail
	case bspec.StatusPending:
		return ActionPending
	case bspec.StatusSkipped:
		return ActionSkip
	default:
		return ActionError
	}
}

// Event is a single occurrence during execution: a scenario starting, a
// condition reaching an outcome, or a structural error.
type Event struct {
	Time    time.Time     // When the event occurred
	Action  Action        // What happened
	Cycle   string        // Engine cycle ID
	Path    []string      // [scenario, example, condition]; shorter for scenario-level events
	Elapsed time.Duration // Time taken (for terminal events)
	Error   error         // Error details (for ActionFail/ActionError)
}

// PathString returns the path as a slash-separated string.
func (e Event) PathString() string {
	return strings.Join(e.Path, "/")
}

// ID returns a unique identifier: "cycle::path::components".
func (e Event) ID() string {
	if e.Cycle == "" {
		return strings.Join(e.Path, "::")
	}

	return e.Cycle + "::" + strings.Join(e.Path, "::")
}

// ConditionName returns the leaf path component.
func (e Event) ConditionName() string {
	if len(e.Path) == 0 {
		return ""
	}

	return e.Path[len(e.Path)-1]
}

// ScenarioName returns the root path component.
func (e Event) ScenarioName() string {
	if len(e.Path) == 0 {
		return ""
	}

	return e.Path[0]
}
