package bspec

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type classified struct {
	Scenario
}

func (c *classified) Given_a_thing()          {}
func (c *classified) Before_each()            {}
func (c *classified) Arrange_the_board()      {}
func (c *classified) Act_on_it()              {}
func (c *classified) Do_the_thing()           {}
func (c *classified) After_each()             {}
func (c *classified) Finally_release()        {}
func (c *classified) When_it_runs()           {}
func (c *classified) It_should_work()         {}
func (c *classified) Should_be_fine()         {}
func (c *classified) Then_it_is_done()        {}
func (c *classified) Assert_the_outcome()     {}
func (c *classified) Helper()                 {} // no separator: ignored
func (c *classified) Given_with_arg(_ int)    {} // wrong shape: ignored
func (c *classified) Given_with_result() bool { return false }

func names(ms []method) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.name
	}

	return out
}

func TestClassify_Roles(t *testing.T) {
	c := classify(reflect.TypeOf(&classified{}), DefaultSeparator)

	assert.ElementsMatch(t, []string{"Given_a_thing", "Before_each", "Arrange_the_board"}, names(c.arrange))
	assert.ElementsMatch(t, []string{"Act_on_it", "Do_the_thing"}, names(c.act))
	assert.ElementsMatch(t, []string{"After_each", "Finally_release"}, names(c.teardown))
	assert.ElementsMatch(t,
		[]string{"When_it_runs", "It_should_work", "Should_be_fine", "Then_it_is_done", "Assert_the_outcome"},
		names(c.examples))

	assert.False(t, c.deep)
	assert.False(t, c.skipped)
}

func TestClassify_ShapeConstraints(t *testing.T) {
	c := classify(reflect.TypeOf(&classified{}), DefaultSeparator)

	all := append(append(append(names(c.arrange), names(c.act)...), names(c.teardown)...), names(c.examples)...)

	assert.NotContains(t, all, "Given_with_arg")
	assert.NotContains(t, all, "Given_with_result")
	assert.NotContains(t, all, "Helper")
}

func TestClassify_Cached(t *testing.T) {
	typ := reflect.TypeOf(&classified{})

	first := classify(typ, DefaultSeparator)
	second := classify(typ, DefaultSeparator)

	assert.Same(t, first, second)
}

type chainParent struct {
	Scenario

	calls []string
}

func (p *chainParent) Given_b_parent() { p.calls = append(p.calls, "arrange parent") }
func (p *chainParent) After_b_parent() { p.calls = append(p.calls, "teardown parent") }

type chainChild struct {
	chainParent
}

func (c *chainChild) Given_a_child() { c.calls = append(c.calls, "arrange child") }
func (c *chainChild) After_a_child() { c.calls = append(c.calls, "teardown child") }
func (c *chainChild) When_chained()  { c.Verify = func() {} }

func TestClassify_DeepChainReversesBuckets(t *testing.T) {
	c := classify(reflect.TypeOf(&chainChild{}), DefaultSeparator)

	require.True(t, c.deep)

	// Method-set order lists the child declarations first; the correction
	// reverses the buckets so ancestor declarations run before derived ones.
	assert.Equal(t, []string{"Given_b_parent", "Given_a_child"}, names(c.arrange))
	assert.Equal(t, []string{"After_b_parent", "After_a_child"}, names(c.teardown))
}

func TestEmbeddingDepth(t *testing.T) {
	assert.Equal(t, 1, embeddingDepth(reflect.TypeOf(classified{})))
	assert.Equal(t, 1, embeddingDepth(reflect.TypeOf(chainParent{})))
	assert.Equal(t, 2, embeddingDepth(reflect.TypeOf(chainChild{})))
	assert.Equal(t, 0, embeddingDepth(reflect.TypeOf(struct{ X int }{})))
}

type skipMarked struct {
	Scenario
	Skip
}

func (s *skipMarked) When_marked() { s.Verify = func() {} }

func TestClassify_SkipMarker(t *testing.T) {
	c := classify(reflect.TypeOf(&skipMarked{}), DefaultSeparator)

	assert.True(t, c.skipped)
}

func TestSelectExamples_TagNarrowing(t *testing.T) {
	c := classify(reflect.TypeOf(&classified{}), DefaultSeparator)

	all := c.selectExamples(nil)
	assert.Len(t, all, 5)

	kept := c.selectExamples([]string{"When_it_runs", "Then_it_is_done"})
	assert.ElementsMatch(t, []string{"When_it_runs", "Then_it_is_done"}, names(kept))

	none := c.selectExamples([]string{"When_nothing_matches"})
	assert.Empty(t, none)
}

func TestRoleOf(t *testing.T) {
	cases := []struct {
		name string
		role Role
		ok   bool
	}{
		{"Given_a_user", RoleArrange, true},
		{"before_each", RoleArrange, true},
		{"Act_now", RoleAct, true},
		{"Do_work", RoleAct, true},
		{"After_all", RoleTeardown, true},
		{"Finally_done", RoleTeardown, true},
		{"When_running", RoleExample, true},
		{"It_works", RoleExample, true},
		{"Should_pass", RoleExample, true},
		{"Then_what", RoleExample, true},
		{"Assert_state", RoleExample, true},
		{"Execute_plan", 0, false},
	}

	for _, tc := range cases {
		role, ok := RoleOf(tc.name)

		assert.Equal(t, tc.ok, ok, tc.name)

		if tc.ok {
			assert.Equal(t, tc.role, role, tc.name)
		}
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "When adding two numbers", normalize("When_adding_two_numbers", "_"))
	assert.Equal(t, "untouched", normalize("untouched", "_"))
	assert.Equal(t, "as_is", normalize("as_is", ""))
}
