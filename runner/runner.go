package runner

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"go.uber.org/zap"

	"github.com/rlch/bspec"
)

// Runner executes a set of scenarios and streams condition events.
type Runner struct {
	handler  Handler
	failFast bool
	filter   *regexp.Regexp
	selector *vm.Program
	sink     io.Writer
	log      *zap.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithHandler sets the event handler.
func WithHandler(h Handler) Option {
	return func(r *Runner) {
		r.handler = h
	}
}

// WithFailFast stops after the first failing scenario. A cycle always runs
// to completion, so the stop happens between scenarios, never mid-cycle.
func WithFailFast(enabled bool) Option {
	return func(r *Runner) {
		r.failFast = enabled
	}
}

// WithFilter sets a regex pattern over condition paths. Events whose path
// matches the pattern are forwarded; others are dropped after accumulation.
func WithFilter(pattern string) Option {
	return func(r *Runner) {
		if pattern != "" {
			r.filter = regexp.MustCompile(pattern)
		}
	}
}

// WithSelector sets an expression over {name, tags, skipped} deciding which
// scenarios run, e.g. `not skipped and "When_focused" in tags`. A bad
// expression panics, mirroring WithFilter's regexp.MustCompile.
func WithSelector(expression string) Option {
	return func(r *Runner) {
		if expression == "" {
			return
		}

		program, err := expr.Compile(expression, expr.AsBool())
		if err != nil {
			panic("runner: invalid selector: " + err.Error())
		}

		r.selector = program
	}
}

// WithSink sets the destination for engine transcripts. Defaults to
// io.Discard: the runner's formatters render outcomes themselves.
func WithSink(w io.Writer) Option {
	return func(r *Runner) {
		r.sink = w
	}
}

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// New creates a Runner with the given options.
func New(opts ...Option) *Runner {
	r := &Runner{
		sink: io.Discard,
		log:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the given scenarios and returns the accumulated results.
// Structural engine errors are surfaced as error events, not returned; the
// returned error reports runner-level problems only.
func (r *Runner) Run(ctx context.Context, scenarios ...any) (*Result, error) {
	if len(scenarios) == 0 {
		return nil, ErrNoScenarios
	}

	result := NewResult()

	handlers := []Handler{NewResultHandler()}
	if r.handler != nil {
		handlers = append(handlers, r.handler)
	}

	if r.failFast {
		handlers = append(handlers, NewStopOnFailHandler(1))
	}

	handler := NewMultiHandler(handlers...)

	for _, target := range scenarios {
		err := r.runScenario(ctx, target, handler, result)
		if errors.Is(err, ErrMaxFailures) {
			break
		}

		if err != nil {
			return result, err
		}
	}

	result.Finish()

	return result, nil
}

func (r *Runner) runScenario(ctx context.Context, target any, handler Handler, result *Result) error {
	var stop error

	notify := bspec.NotifierFunc(func(n bspec.Notification) {
		event := Event{
			Time:   time.Now(),
			Action: actionFor(n.Status),
			Cycle:  n.Cycle,
			Path:   []string{n.Scenario, n.Example, n.Condition},
			Error:  n.Err,
		}

		if !r.matchesFilter(event.Path) {
			result.Add(event)

			return
		}

		if err := handler.Event(ctx, event, result); err != nil && stop == nil {
			stop = err
		}
	})

	suite, err := bspec.New(target,
		bspec.WithSink(r.sink),
		bspec.WithNotifier(notify),
		bspec.WithLogger(r.log),
	)
	if err != nil {
		return err
	}

	if !r.selected(suite) {
		r.log.Debug("scenario not selected", zap.String("scenario", suite.Name()))

		return nil
	}

	start := time.Now()

	if err := handler.Event(ctx, Event{
		Time:   start,
		Action: ActionRun,
		Path:   []string{suite.Name()},
	}, result); err != nil {
		return err
	}

	if err := suite.Execute(); err != nil {
		// Structural error: the scenario could not be compiled or executed.
		return handler.Event(ctx, Event{
			Time:    time.Now(),
			Action:  ActionError,
			Path:    []string{suite.Name()},
			Elapsed: time.Since(start),
			Error:   err,
		}, result)
	}

	return stop
}

// selected evaluates the selector expression for a suite.
func (r *Runner) selected(suite *bspec.Suite) bool {
	if r.selector == nil {
		return true
	}

	env := map[string]any{
		"name":    suite.Name(),
		"tags":    suite.Tags(),
		"skipped": suite.Skipped(),
	}

	out, err := expr.Run(r.selector, env)
	if err != nil {
		r.log.Warn("selector failed", zap.Error(err))

		return true
	}

	keep, ok := out.(bool)

	return !ok || keep
}

// matchesFilter returns true if the condition path matches the filter
// pattern. If no filter is set, all paths match.
func (r *Runner) matchesFilter(path []string) bool {
	if r.filter == nil {
		return true
	}

	return r.filter.MatchString(strings.Join(path, "/"))
}
