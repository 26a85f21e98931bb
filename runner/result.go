package runner

import (
	"sync"
	"time"
)

// Result accumulates condition outcomes during execution.
type Result struct {
	mu sync.RWMutex

	StartTime time.Time
	EndTime   time.Time

	Total   int
	Passed  int
	Failed  int
	Pending int
	Skipped int
	Errors  int

	// Conditions indexed by path string: "Scenario/Example/Condition"
	Conditions map[string]*ConditionResult

	// Order preserves insertion order for display
	Order []string
}

// NewResult creates an initialized Result.
func NewResult() *Result {
	return &Result{
		StartTime:  time.Now(),
		Conditions: make(map[string]*ConditionResult),
	}
}

// Add records a terminal event in the result.
func (r *Result) Add(event Event) {
	if !event.Action.IsTerminal() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	path := event.PathString()

	cr := &ConditionResult{
		Path:    event.Path,
		Status:  event.Action,
		Elapsed: event.Elapsed,
		Error:   event.Error,
	}

	r.Conditions[path] = cr
	r.Order = append(r.Order, path)
	r.Total++

	switch event.Action {
	case ActionPass:
		r.Passed++
	case ActionFail:
		r.Failed++
	case ActionPending:
		r.Pending++
	case ActionSkip:
		r.Skipped++
	case ActionError:
		r.Errors++
	case ActionRun:
		// Not terminal
	}
}

// Merge folds another result into this one.
func (r *Result) Merge(other *Result) {
	other.mu.RLock()
	defer other.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, path := range other.Order {
		r.Conditions[path] = other.Conditions[path]
		r.Order = append(r.Order, path)
	}

	r.Total += other.Total
	r.Passed += other.Passed
	r.Failed += other.Failed
	r.Pending += other.Pending
	r.Skipped += other.Skipped
	r.Errors += other.Errors

	if other.EndTime.After(r.EndTime) {
		r.EndTime = other.EndTime
	}
}

// Finish marks the result as complete.
func (r *Result) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.EndTime = time.Now()
}

// Elapsed returns the total execution time.
func (r *Result) Elapsed() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.EndTime.IsZero() {
		return time.Since(r.StartTime)
	}

	return r.EndTime.Sub(r.StartTime)
}

// Ok returns true if no condition failed or errored.
func (r *Result) Ok() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.Failed == 0 && r.Errors == 0
}

// FailedConditions returns all failed or errored condition results.
func (r *Result) FailedConditions() []*ConditionResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var failed []*ConditionResult

	for _, path := range r.Order {
		cr := r.Conditions[path]
		if cr.Status == ActionFail || cr.Status == ActionError {
			failed = append(failed, cr)
		}
	}

	return failed
}

// ConditionResult holds the outcome of a single condition.
type ConditionResult struct {
	Path    []string
	Status  Action
	Elapsed time.Duration
	Error   error
}

// PathString returns the path as a slash-separated string.
func (cr *ConditionResult) PathString() string {
	result := ""

	for i, p := range cr.Path {
		if i > 0 {
			result += "/"
		}

		result += p
	}

	return result
}
