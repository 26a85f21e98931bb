// Package gotest binds the bspec engine to the standard testing package.
// The adapter supplies the two halves of the host contract: it calls the
// engine's execute entry point, and its failure callback marks the hosting
// test failed.
package gotest

import (
	"strings"
	"testing"

	"github.com/rlch/bspec"
)

// Run executes each scenario as a subtest. The transcript goes to the
// subtest's log; aggregated failures mark the subtest failed; structural
// errors abort it.
func Run(t *testing.T, scenarios ...any) {
	t.Helper()

	for _, target := range scenarios {
		var transcript strings.Builder

		failed := false

		suite, err := bspec.New(target,
			bspec.WithSink(&transcript),
			bspec.WithFailureHook(func() { failed = true }),
		)
		if err != nil {
			t.Fatalf("bspec: %v", err)
		}

		t.Run(suite.Name(), func(t *testing.T) {
			err := suite.Execute()

			t.Log(transcript.String())

			if err != nil {
				t.Fatalf("bspec: %v", err)
			}

			if failed {
				t.Fail()
			}
		})
	}
}
