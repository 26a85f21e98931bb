package runner

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestDotsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun}, nil)

	if buf.Len() != 0 {
		t.Error("Non-terminal should produce no output")
	}

	_ = f.Format(Event{Action: ActionPass}, nil)
	_ = f.Format(Event{Action: ActionFail}, nil)
	_ = f.Format(Event{Action: ActionPending}, nil)
	_ = f.Format(Event{Action: ActionSkip}, nil)
	_ = f.Format(Event{Action: ActionError}, nil)

	if got := buf.String(); got != ".F?SE" {
		t.Errorf("got %q, want %q", got, ".F?SE")
	}
}

func TestDotsFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewDotsFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionPass, Path: []string{"Calc", "When_adding", "sums"}})
	result.Add(Event{Action: ActionFail, Path: []string{"Calc", "When_adding", "overflows"}, Error: errTestFail})
	result.Finish()

	_ = f.Summary(result)

	got := buf.String()

	if !bytes.Contains(buf.Bytes(), []byte("FAIL Calc/When_adding/overflows")) {
		t.Errorf("missing failure line in:\n%s", got)
	}

	if !bytes.Contains(buf.Bytes(), []byte("2 conditions, 1 passed, 1 failed")) {
		t.Errorf("missing summary counts in:\n%s", got)
	}
}

func TestVerboseFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewVerboseFormatter(&buf)

	_ = f.Format(Event{Action: ActionRun, Path: []string{"Calc"}}, nil)

	if got, want := buf.String(), "=== RUN   Calc\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{Action: ActionPass, Path: []string{"Calc", "When_adding", "sums"}}, nil)

	if got, want := buf.String(), "--- PASS: Calc/When_adding/sums\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	buf.Reset()

	_ = f.Format(Event{Action: ActionFail, Path: []string{"Calc", "When_adding", "sums"}, Error: errTestFail}, nil)

	want := "--- FAIL: Calc/When_adding/sums\n    test: fail\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	fixedTime := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	_ = f.Format(Event{
		Time:    fixedTime,
		Action:  ActionPass,
		Cycle:   "c-1",
		Path:    []string{"Calc", "When_adding", "sums"},
		Elapsed: 50 * time.Millisecond,
	}, nil)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got["action"] != "passed" {
		t.Errorf("action = %v, want passed", got["action"])
	}

	if got["path"] != "Calc/When_adding/sums" {
		t.Errorf("path = %v, want Calc/When_adding/sums", got["path"])
	}

	if got["condition"] != "sums" {
		t.Errorf("condition = %v, want sums", got["condition"])
	}

	if got["cycle"] != "c-1" {
		t.Errorf("cycle = %v, want c-1", got["cycle"])
	}
}

func TestJSONFormatter_Summary(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	result := NewResult()
	result.Add(Event{Action: ActionPass, Path: []string{"A"}})
	result.Add(Event{Action: ActionFail, Path: []string{"B"}})
	result.Finish()

	_ = f.Summary(result)

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if got["action"] != "summary" {
		t.Errorf("action = %v, want summary", got["action"])
	}

	total, ok := got["total"].(float64)
	if !ok || total != 2 {
		t.Errorf("total = %v, want 2", got["total"])
	}

	okVal, ok := got["ok"].(bool)
	if !ok || okVal {
		t.Errorf("ok = %v, want false", got["ok"])
	}
}

func TestDecodeEvent_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	f := NewJSONFormatter(&buf)

	_ = f.Format(Event{
		Time:   time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Action: ActionFail,
		Cycle:  "c-2",
		Path:   []string{"Calc", "When_adding", "overflows"},
		Error:  errTestFail,
	}, nil)

	event, ok, err := DecodeEvent(bytes.TrimSpace(buf.Bytes()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !ok {
		t.Fatal("expected an event, got summary")
	}

	if event.Action != ActionFail {
		t.Errorf("action = %v, want %v", event.Action, ActionFail)
	}

	if event.PathString() != "Calc/When_adding/overflows" {
		t.Errorf("path = %v", event.Path)
	}

	if event.Error == nil || event.Error.Error() != "test: fail" {
		t.Errorf("error = %v", event.Error)
	}
}

func TestDecodeEvent_Summary(t *testing.T) {
	_, ok, err := DecodeEvent([]byte(`{"action":"summary","total":1}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if ok {
		t.Error("summary line should not produce an event")
	}
}

func TestPrettyFormatter_GroupsByScenario(t *testing.T) {
	var buf bytes.Buffer

	f := NewPrettyFormatter(&buf)

	_ = f.Format(Event{Action: ActionPass, Path: []string{"Calc", "When_adding", "sums"}}, nil)
	_ = f.Format(Event{Action: ActionFail, Path: []string{"Calc", "When_adding", "overflows"}, Error: errTestFail}, nil)
	_ = f.Format(Event{Action: ActionSkip, Path: []string{"Other", "When_skipped", "later"}}, nil)

	got := buf.String()

	if !bytes.Contains(buf.Bytes(), []byte("Calc")) || !bytes.Contains(buf.Bytes(), []byte("Other")) {
		t.Errorf("missing scenario headers in:\n%s", got)
	}

	// Each scenario header appears once.
	if n := bytes.Count(buf.Bytes(), []byte("Calc\n")); n != 1 {
		t.Errorf("Calc header appears %d times", n)
	}
}

func TestNewFormatter(t *testing.T) {
	var buf bytes.Buffer

	if _, ok := NewFormatter("verbose", &buf).(*VerboseFormatter); !ok {
		t.Error("verbose should build a VerboseFormatter")
	}

	if _, ok := NewFormatter("json", &buf).(*JSONFormatter); !ok {
		t.Error("json should build a JSONFormatter")
	}

	if _, ok := NewFormatter("pretty", &buf).(*PrettyFormatter); !ok {
		t.Error("pretty should build a PrettyFormatter")
	}

	if _, ok := NewFormatter("", &buf).(*DotsFormatter); !ok {
		t.Error("default should build a DotsFormatter")
	}
}
