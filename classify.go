package bspec

import (
	"reflect"
	"strings"
	"sync"
)

// method is one classified scenario method, addressed by its index in the
// concrete type's method set.
type method struct {
	name  string
	index int
}

// classification partitions a scenario type's methods into role buckets.
// Within a bucket, methods appear in the reflected method-set order
// (lexicographic in Go, and stable); deep classifications have every bucket
// reversed, see correctOrder.
type classification struct {
	arrange  []method
	act      []method
	teardown []method
	examples []method

	// deep is true when the scenario participates in a multi-level
	// embedding chain below the Scenario base.
	deep bool

	// skipped is true when the type embeds the Skip marker.
	skipped bool
}

var classifications sync.Map // reflect.Type -> *classification

// classify inspects a scenario pointer type and buckets its exported
// zero-argument, zero-return methods by name prefix. Results are cached per
// concrete type; the separator is part of the type's own convention, so one
// cache entry suffices.
func classify(ptr reflect.Type, sep string) *classification {
	if cached, ok := classifications.Load(ptr); ok {
		return cached.(*classification)
	}

	elem := ptr.Elem()

	c := &classification{
		deep:    embeddingDepth(elem) > 1,
		skipped: embedsMarker(elem, reflect.TypeOf(Skip{})),
	}

	for i := 0; i < ptr.NumMethod(); i++ {
		m := ptr.Method(i)

		// Shape: receiver only, nothing returned.
		ft := m.Func.Type()
		if ft.NumIn() != 1 || ft.NumOut() != 0 {
			continue
		}

		// The separator guard keeps framework-reserved and helper method
		// names out of the buckets.
		if sep == "" || !strings.Contains(m.Name, sep) {
			continue
		}

		role, ok := RoleOf(m.Name)
		if !ok {
			continue
		}

		ref := method{name: m.Name, index: i}

		switch role {
		case RoleArrange:
			c.arrange = append(c.arrange, ref)
		case RoleAct:
			c.act = append(c.act, ref)
		case RoleTeardown:
			c.teardown = append(c.teardown, ref)
		case RoleExample:
			c.examples = append(c.examples, ref)
		}
	}

	c.correctOrder()

	cached, _ := classifications.LoadOrStore(ptr, c)

	return cached.(*classification)
}

// correctOrder reverses every bucket when the scenario sits more than one
// embedding level below the base. Method discovery is bottom-up, so without
// the reversal an arrange/teardown pair declared across levels executes in
// the wrong relative order. Legacy behavior, reproduced exactly.
func (c *classification) correctOrder() {
	if !c.deep {
		return
	}

	reverse(c.arrange)
	reverse(c.act)
	reverse(c.teardown)
	reverse(c.examples)
}

func reverse(ms []method) {
	for i, j := 0, len(ms)-1; i < j; i, j = i+1, j-1 {
		ms[i], ms[j] = ms[j], ms[i]
	}
}

// selectExamples applies tag narrowing: when any example method is tagged,
// only tagged methods are kept.
func (c *classification) selectExamples(tags []string) []method {
	if len(tags) == 0 {
		return c.examples
	}

	tagged := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagged[t] = true
	}

	var kept []method

	for _, m := range c.examples {
		if tagged[m.name] {
			kept = append(kept, m)
		}
	}

	return kept
}

var baseType = reflect.TypeOf(Scenario{})

// embeddingDepth reports how many anonymous struct levels separate t from
// the Scenario base. Directly embedding Scenario is depth 1.
func embeddingDepth(t reflect.Type) int {
	if t.Kind() != reflect.Struct {
		return 0
	}

	depth := 0

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if ft == baseType {
			if depth < 1 {
				depth = 1
			}

			continue
		}

		if d := embeddingDepth(ft); d > 0 && d+1 > depth {
			depth = d + 1
		}
	}

	return depth
}

// embedsMarker reports whether t anonymously embeds marker at any depth.
func embedsMarker(t reflect.Type, marker reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.Anonymous {
			continue
		}

		ft := f.Type
		if ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}

		if ft == marker {
			return true
		}

		if embedsMarker(ft, marker) {
			return true
		}
	}

	return false
}
