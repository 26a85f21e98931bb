package bspec

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Status is the reported outcome of one condition.
type Status string

// Condition statuses.
const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
	StatusSkipped Status = "skipped"
)

// failureBanner opens the aggregated failure section.
const failureBanner = "********** FAILURES **********"

// verbalizer accumulates the indented transcript for one execution cycle.
type verbalizer struct {
	buf bytes.Buffer
	sep string
}

func newVerbalizer(sep string) *verbalizer {
	return &verbalizer{sep: sep}
}

// scenario renders the header line: the normalized scenario name, suffixed
// when the whole type is skipped.
func (v *verbalizer) scenario(name string, skipped bool) {
	v.buf.WriteString(normalize(name, v.sep))

	if skipped {
		v.buf.WriteString(" (skipped)")
	}

	v.buf.WriteString("\n")
}

// tagBanner renders the tag section when any tags are present.
func (v *verbalizer) tagBanner(tags []string) {
	if len(tags) == 0 {
		return
	}

	v.buf.WriteString("Tag(s):\n")

	for _, t := range tags {
		v.buf.WriteString(normalize(t, v.sep))
		v.buf.WriteString("\n")
	}
}

// example renders a multi-condition example's headline at one tab.
func (v *verbalizer) example(name string) {
	fmt.Fprintf(&v.buf, "\t%s\n", normalize(name, v.sep))
}

// condition renders one condition line at the given tab depth. Rendering
// happens for every outcome; only the status word differs.
func (v *verbalizer) condition(indent int, name string, status Status) {
	fmt.Fprintf(&v.buf, "%s%s : %s\n", strings.Repeat("\t", indent), normalize(name, v.sep), status)
}

// blank separates example blocks.
func (v *verbalizer) blank() {
	v.buf.WriteString("\n")
}

// failures renders the aggregated failure section: the banner, then each
// failed condition's rendered name, the FAILED marker, and the captured
// detail (cause message plus stack).
func (v *verbalizer) failures(fs []*Failure) {
	if len(fs) == 0 {
		return
	}

	v.buf.WriteString(failureBanner)
	v.buf.WriteString("\n")

	for _, f := range fs {
		fmt.Fprintf(&v.buf, ">> %s - FAILED\n", normalize(f.Condition, v.sep))
		v.buf.WriteString(detail(f))
	}
}

// detail formats one failure's cause message and stack.
func detail(f *Failure) string {
	var b strings.Builder

	if f.Cause != nil {
		b.WriteString(f.Cause.Error())
		b.WriteString("\n")
	}

	if len(f.Stack) > 0 {
		b.Write(bytes.TrimRight(f.Stack, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}

// String returns the transcript accumulated so far.
func (v *verbalizer) String() string { return v.buf.String() }

// emit writes the transcript to the sink.
func (v *verbalizer) emit(w io.Writer) error {
	_, err := w.Write(v.buf.Bytes())

	return err
}
