package bspec

import (
	"io"
	"os"
	"reflect"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification describes the outcome of one evaluated condition. It is the
// boundary record host adapters and runners build on; the engine itself
// never propagates assertion failures.
type Notification struct {
	Cycle     string
	Scenario  string
	Example   string
	Condition string
	Status    Status
	Err       error
}

// Notifier receives one notification per evaluated condition.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls f.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// phase tracks where a cycle is; transitions are
// idle → arranging → running → tearing down → reported → idle.
type phase int

const (
	phaseIdle phase = iota
	phaseArranging
	phaseRunning
	phaseTearingDown
	phaseReported
)

// Suite binds one scenario instance to the engine. Execute runs a full
// cycle — arrange, examples, teardown, report — and resets the instance so
// it can be executed again.
type Suite struct {
	mu sync.Mutex

	target reflect.Value
	base   *Scenario
	class  *classification
	name   string
	sep    string
	tags   []string

	sink     io.Writer
	hook     func()
	notifier Notifier
	log      *zap.Logger

	// Per-cycle state, cleared by reset.
	phase    phase
	cycle    string
	examples []*Example
	v        *verbalizer
}

// Option configures a Suite.
type Option func(*Suite)

// WithSink sets the transcript sink. Defaults to os.Stdout.
func WithSink(w io.Writer) Option {
	return func(s *Suite) { s.sink = w }
}

// WithFailureHook sets the hook invoked exactly once per cycle when at least
// one condition failed. This is the engine's only failure signal.
func WithFailureHook(fn func()) Option {
	return func(s *Suite) { s.hook = fn }
}

// WithNotifier sets the per-condition notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Suite) { s.notifier = n }
}

// WithLogger sets the debug logger. Defaults to a nop logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Suite) { s.log = l }
}

// New wraps a scenario instance. The target must be a pointer to a struct
// embedding Scenario; classification happens here and is cached per type.
func New(target any, opts ...Option) (*Suite, error) {
	h, ok := target.(holder)
	if !ok {
		return nil, ErrNotScenario
	}

	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.Elem().Kind() != reflect.Struct {
		return nil, ErrNotScenario
	}

	s := &Suite{
		target: val,
		base:   h.base(),
		name:   val.Type().Elem().Name(),
		sep:    h.WordSeparator(),
		sink:   os.Stdout,
		log:    zap.NewNop(),
	}

	s.class = classify(val.Type(), s.sep)

	if tagged, ok := target.(Tagged); ok {
		s.tags = tagged.Tags()
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Name returns the scenario type name.
func (s *Suite) Name() string { return s.name }

// Skipped reports whether the scenario type carries the Skip marker.
func (s *Suite) Skipped() bool { return s.class.skipped }

// Tags returns the scenario's tagged example method names.
func (s *Suite) Tags() []string { return s.tags }

// Execute runs one full cycle and resets the instance state afterwards, so
// repeated calls are independent. Concurrent calls on the same Suite are
// serialized: the cycle mutates shared instance slots and must be exclusive
// from arranging through reporting.
//
// Structural errors — a wrapping violation during discovery, or an example
// declaring both Verify and named conditions — are returned. Assertion
// failures are not: they surface through the transcript and the failure
// hook.
func (s *Suite) Execute() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.reset()

	s.cycle = uuid.NewString()
	s.v = newVerbalizer(s.sep)

	s.log.Debug("cycle starting",
		zap.String("cycle", s.cycle),
		zap.String("scenario", s.name),
		zap.Int("examples", len(s.class.examples)),
		zap.Bool("skipped", s.class.skipped),
	)

	comp := &compiler{target: s.target, base: s.base, class: s.class, tags: s.tags}

	examples, err := comp.compile()
	if err != nil {
		return err
	}

	s.examples = examples

	s.v.scenario(s.name, s.class.skipped)
	s.v.tagBanner(s.tags)

	var structural error

	if s.class.skipped {
		// Nothing user-supplied runs for a skipped type; the examples are
		// rendered for visibility only.
		for _, ex := range s.examples {
			s.renderSkipped(ex)
		}
	} else {
		s.phase = phaseArranging
		s.runMethods(s.class.arrange)

		s.phase = phaseRunning

		for _, ex := range s.examples {
			if err := s.executeExample(ex); err != nil {
				structural = err

				break
			}
		}

		s.phase = phaseTearingDown
		s.runMethods(s.class.teardown)
	}

	s.phase = phaseReported

	failed := s.collectFailures()
	s.v.failures(failed)

	emitErr := s.v.emit(s.sink)

	if len(failed) > 0 && s.hook != nil {
		s.hook()
	}

	s.log.Debug("cycle finished",
		zap.String("cycle", s.cycle),
		zap.Int("failures", len(failed)),
	)

	if structural != nil {
		return structural
	}

	return emitErr
}

// executeExample runs one compiled example: pre-actions, act methods,
// conditions, post-action. Condition failures never abort siblings.
func (s *Suite) executeExample(ex *Example) error {
	if ex.verify != nil && len(ex.conditions) > 0 {
		return &AmbiguousStyleError{Example: ex.Name}
	}

	for _, a := range ex.pre {
		a.invoke()
	}

	s.runMethods(s.class.act)

	if ex.verify != nil {
		// The verify-derived condition is the example's headline.
		s.eval(ex, ex.verify, 1)
	} else {
		s.v.example(ex.Name)

		for _, c := range ex.conditions {
			s.eval(ex, c, 2)
		}
	}

	ex.post.invoke()
	s.v.blank()

	return nil
}

// renderSkipped emits the skipped status lines for one example of a skipped
// type without invoking anything.
func (s *Suite) renderSkipped(ex *Example) {
	if ex.verify != nil && len(ex.conditions) == 0 {
		s.eval(ex, ex.verify, 1)
	} else {
		s.v.example(ex.Name)

		for _, c := range ex.conditions {
			s.eval(ex, c, 2)
		}
	}

	s.v.blank()
}

// eval evaluates and renders one condition. Rendering happens regardless of
// outcome; only the status word differs.
func (s *Suite) eval(ex *Example, c *Condition, indent int) {
	var status Status

	switch {
	case ex.skipped:
		status = StatusSkipped
	case c.pending():
		status = StatusPending
	default:
		c.invoke()

		if c.Failed() {
			status = StatusFailed
		} else {
			status = StatusPassed
		}
	}

	s.v.condition(indent, c.Name, status)

	if s.notifier != nil {
		s.notifier.Notify(Notification{
			Cycle:     s.cycle,
			Scenario:  s.name,
			Example:   ex.Name,
			Condition: c.Name,
			Status:    status,
			Err:       c.Err(),
		})
	}
}

// runMethods invokes classified plain methods in corrected order.
func (s *Suite) runMethods(ms []method) {
	for _, m := range ms {
		s.target.Method(m.index).Call(nil)
	}
}

// collectFailures gathers every captured failure across the cycle's
// examples, in evaluation order.
func (s *Suite) collectFailures() []*Failure {
	var fs []*Failure

	for _, ex := range s.examples {
		fs = append(fs, ex.failures()...)
	}

	return fs
}

// reset returns the instance to its initial empty configuration.
func (s *Suite) reset() {
	s.base.resetSlots()
	s.examples = nil
	s.v = nil
	s.cycle = ""
	s.phase = phaseIdle
}
