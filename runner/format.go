package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// Formatter renders events and results.
type Formatter interface {
	Format(event Event, result *Result) error
	Summary(result *Result) error
}

// Summarizer is implemented by handlers that can render a final summary.
type Summarizer interface {
	Summary(result *Result) error
}

// FormatHandler is a Handler that delegates to a Formatter.
type FormatHandler struct {
	formatter Formatter
	stderr    io.Writer
}

// NewFormatHandler creates a handler that formats events.
func NewFormatHandler(f Formatter, stderr io.Writer) *FormatHandler {
	return &FormatHandler{formatter: f, stderr: stderr}
}

// Event formats the event.
func (h *FormatHandler) Event(_ context.Context, event Event, result *Result) error {
	return h.formatter.Format(event, result)
}

// Err writes to stderr.
func (h *FormatHandler) Err(text string) error {
	_, err := h.stderr.Write([]byte(text + "\n"))

	return err
}

// Summary renders the final summary.
func (h *FormatHandler) Summary(result *Result) error {
	return h.formatter.Summary(result)
}

// -----------------------------------------------------------------------------
// Dots Formatter
// -----------------------------------------------------------------------------

// DotsFormatter is a minimal formatter that prints one character per
// condition.
type DotsFormatter struct {
	w     io.Writer
	count int
}

// NewDotsFormatter creates a dots formatter.
func NewDotsFormatter(w io.Writer) *DotsFormatter {
	return &DotsFormatter{w: w}
}

const lineWidth = 80

// Format prints a single character per terminal event.
func (d *DotsFormatter) Format(event Event, _ *Result) error {
	if !event.Action.IsTerminal() {
		return nil
	}

	var char string

	switch event.Action {
	case ActionPass:
		char = "."
	case ActionFail:
		char = "F"
	case ActionPending:
		char = "?"
	case ActionSkip:
		char = "S"
	case ActionError:
		char = "E"
	case ActionRun:
		return nil
	}

	_, err := fmt.Fprint(d.w, char)
	d.count++

	if d.count%lineWidth == 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	return err
}

// Summary prints the final results.
func (d *DotsFormatter) Summary(result *Result) error {
	if d.count > 0 && d.count%lineWidth != 0 {
		_, _ = fmt.Fprintln(d.w)
	}

	_, _ = fmt.Fprintln(d.w)

	for _, cr := range result.FailedConditions() {
		switch cr.Status {
		case ActionFail:
			_, _ = fmt.Fprintf(d.w, "FAIL %s\n", cr.PathString())

			if cr.Error != nil {
				_, _ = fmt.Fprintf(d.w, "  %v\n", cr.Error)
			}
		case ActionError:
			_, _ = fmt.Fprintf(d.w, "ERROR %s: %v\n", cr.PathString(), cr.Error)
		case ActionPass, ActionPending, ActionSkip, ActionRun:
			// Not failures
		}

		_, _ = fmt.Fprintln(d.w)
	}

	status := "PASS"
	if !result.Ok() {
		status = "FAIL"
	}

	_, _ = fmt.Fprintf(d.w, "%s %d conditions, %d passed, %d failed, %d pending, %d skipped in %s\n",
		status,
		result.Total,
		result.Passed,
		result.Failed,
		result.Pending,
		result.Skipped,
		result.Elapsed().Round(time.Millisecond),
	)

	return nil
}

// -----------------------------------------------------------------------------
// Verbose Formatter
// -----------------------------------------------------------------------------

// VerboseFormatter prints full condition paths as they complete.
type VerboseFormatter struct {
	w io.Writer
}

// NewVerboseFormatter creates a verbose formatter.
func NewVerboseFormatter(w io.Writer) *VerboseFormatter {
	return &VerboseFormatter{w: w}
}

// Format prints each event as it occurs.
func (v *VerboseFormatter) Format(event Event, _ *Result) error {
	switch event.Action {
	case ActionRun:
		_, _ = fmt.Fprintf(v.w, "=== RUN   %s\n", event.PathString())
	case ActionPass:
		_, _ = fmt.Fprintf(v.w, "--- PASS: %s\n", event.PathString())
	case ActionFail:
		_, _ = fmt.Fprintf(v.w, "--- FAIL: %s\n", event.PathString())

		if event.Error != nil {
			_, _ = fmt.Fprintf(v.w, "    %v\n", event.Error)
		}
	case ActionPending:
		_, _ = fmt.Fprintf(v.w, "--- PEND: %s\n", event.PathString())
	case ActionSkip:
		_, _ = fmt.Fprintf(v.w, "--- SKIP: %s\n", event.PathString())
	case ActionError:
		_, _ = fmt.Fprintf(v.w, "--- ERROR: %s\n", event.PathString())
		_, _ = fmt.Fprintf(v.w, "    %v\n", event.Error)
	}

	return nil
}

// Summary prints the final results.
func (v *VerboseFormatter) Summary(result *Result) error {
	_, _ = fmt.Fprintln(v.w)

	status := "PASS"
	if !result.Ok() {
		status = "FAIL"
	}

	_, _ = fmt.Fprintf(v.w, "%s\n", status)
	_, _ = fmt.Fprintf(v.w, "  %d total, %d passed, %d failed, %d pending, %d skipped, %d errors\n",
		result.Total,
		result.Passed,
		result.Failed,
		result.Pending,
		result.Skipped,
		result.Errors,
	)
	_, _ = fmt.Fprintf(v.w, "  elapsed: %s\n", result.Elapsed().Round(time.Millisecond))

	return nil
}

// -----------------------------------------------------------------------------
// JSON Formatter
// -----------------------------------------------------------------------------

// JSONFormatter outputs newline-delimited JSON events, the stream format
// consumed by `bspec tail`.
type JSONFormatter struct {
	enc *json.Encoder
}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{enc: json.NewEncoder(w)}
}

type jsonEvent struct {
	Time      string  `json:"time"`
	Action    string  `json:"action"`
	Cycle     string  `json:"cycle,omitempty"`
	Path      string  `json:"path"`
	Condition string  `json:"condition,omitempty"`
	Elapsed   float64 `json:"elapsed,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// Format outputs a JSON event.
func (j *JSONFormatter) Format(event Event, _ *Result) error {
	je := jsonEvent{
		Time:      event.Time.Format(time.RFC3339Nano),
		Action:    string(event.Action),
		Cycle:     event.Cycle,
		Path:      event.PathString(),
		Condition: event.ConditionName(),
	}

	if event.Action.IsTerminal() {
		je.Elapsed = event.Elapsed.Seconds()
	}

	if event.Error != nil {
		je.Error = event.Error.Error()
	}

	return j.enc.Encode(je)
}

type jsonSummary struct {
	Action  string  `json:"action"`
	Total   int     `json:"total"`
	Passed  int     `json:"passed"`
	Failed  int     `json:"failed"`
	Pending int     `json:"pending"`
	Skipped int     `json:"skipped"`
	Errors  int     `json:"errors"`
	Elapsed float64 `json:"elapsed"`
	Ok      bool    `json:"ok"`
}

// Summary outputs the final JSON summary.
func (j *JSONFormatter) Summary(result *Result) error {
	return j.enc.Encode(jsonSummary{
		Action:  "summary",
		Total:   result.Total,
		Passed:  result.Passed,
		Failed:  result.Failed,
		Pending: result.Pending,
		Skipped: result.Skipped,
		Errors:  result.Errors,
		Elapsed: result.Elapsed().Seconds(),
		Ok:      result.Ok(),
	})
}

// DecodeEvent parses one NDJSON line back into an Event. The inverse of
// JSONFormatter.Format, used by `bspec tail`.
func DecodeEvent(line []byte) (Event, bool, error) {
	var je jsonEvent

	if err := json.Unmarshal(line, &je); err != nil {
		return Event{}, false, err
	}

	if je.Action == "summary" {
		return Event{}, false, nil
	}

	ts, _ := time.Parse(time.RFC3339Nano, je.Time)

	event := Event{
		Time:    ts,
		Action:  Action(je.Action),
		Cycle:   je.Cycle,
		Elapsed: time.Duration(je.Elapsed * float64(time.Second)),
	}

	if je.Path != "" {
		event.Path = strings.Split(je.Path, "/")
	}

	if je.Error != "" {
		event.Error = fmt.Errorf("%s", je.Error)
	}

	return event, true, nil
}

// -----------------------------------------------------------------------------
// Pretty Formatter
// -----------------------------------------------------------------------------

// PrettyFormatter renders styled condition lines grouped under their
// scenario.
type PrettyFormatter struct {
	w      io.Writer
	styles *Styles
	last   string
}

// NewPrettyFormatter creates a lipgloss-styled formatter.
func NewPrettyFormatter(w io.Writer) *PrettyFormatter {
	return &PrettyFormatter{w: w, styles: DefaultStyles()}
}

// Format prints one styled line per terminal event, with a scenario header
// whenever the scenario changes.
func (p *PrettyFormatter) Format(event Event, _ *Result) error {
	if event.Action == ActionRun {
		return nil
	}

	if scenario := event.ScenarioName(); scenario != p.last {
		p.last = scenario
		_, _ = fmt.Fprintln(p.w, p.styles.Bold.Render(scenario))
	}

	var symbol, line string

	rest := strings.Join(event.Path[1:], " › ")

	switch event.Action {
	case ActionPass:
		symbol = p.styles.Pass.Render(p.styles.SymbolPass)
		line = rest
	case ActionFail:
		symbol = p.styles.Fail.Render(p.styles.SymbolFail)
		line = p.styles.Fail.Render(rest)
	case ActionPending:
		symbol = p.styles.Pending.Render(p.styles.SymbolPending)
		line = p.styles.Muted.Render(rest)
	case ActionSkip:
		symbol = p.styles.Skip.Render(p.styles.SymbolSkip)
		line = p.styles.Muted.Render(rest)
	case ActionError:
		symbol = p.styles.Error.Render(p.styles.SymbolFail)
		line = p.styles.Error.Render(fmt.Sprintf("%v", event.Error))
	case ActionRun:
		return nil
	}

	_, _ = fmt.Fprintf(p.w, "  %s %s\n", symbol, line)

	return nil
}

// Summary prints styled totals.
func (p *PrettyFormatter) Summary(result *Result) error {
	var parts []string

	if result.Passed > 0 {
		parts = append(parts, p.styles.Pass.Render(fmt.Sprintf("%d passed", result.Passed)))
	}

	if result.Failed > 0 {
		parts = append(parts, p.styles.Fail.Render(fmt.Sprintf("%d failed", result.Failed)))
	}

	if result.Pending > 0 {
		parts = append(parts, p.styles.Pending.Render(fmt.Sprintf("%d pending", result.Pending)))
	}

	if result.Skipped > 0 {
		parts = append(parts, p.styles.Skip.Render(fmt.Sprintf("%d skipped", result.Skipped)))
	}

	if result.Errors > 0 {
		parts = append(parts, p.styles.Error.Render(fmt.Sprintf("%d errors", result.Errors)))
	}

	if len(parts) == 0 {
		_, _ = fmt.Fprintln(p.w, p.styles.Dim.Render("no conditions run"))

		return nil
	}

	total := p.styles.Muted.Render(fmt.Sprintf("(%d total, %s)", result.Total, result.Elapsed().Round(time.Millisecond)))
	sep := p.styles.Dim.Render(" │ ")

	_, _ = fmt.Fprintln(p.w)
	_, _ = fmt.Fprintln(p.w, strings.Join(parts, sep)+" "+total)

	return nil
}

// NewFormatter creates a formatter by name.
func NewFormatter(name string, w io.Writer) Formatter {
	switch name {
	case "verbose":
		return NewVerboseFormatter(w)
	case "json":
		return NewJSONFormatter(w)
	case "pretty":
		return NewPrettyFormatter(w)
	default:
		return NewDotsFormatter(w)
	}
}
