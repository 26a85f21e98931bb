package bspec

import "strings"

// DefaultSeparator is the word separator used for method-name matching and
// transcript rendering unless the scenario overrides WordSeparator.
const DefaultSeparator = "_"

// Role names a method's part in the execution cycle.
type Role int

// Roles, in execution order.
const (
	RoleArrange Role = iota
	RoleAct
	RoleExample
	RoleTeardown
)

func (r Role) String() string {
	switch r {
	case RoleArrange:
		return "arrange"
	case RoleAct:
		return "act"
	case RoleExample:
		return "example"
	case RoleTeardown:
		return "teardown"
	default:
		return "unknown"
	}
}

// rolePrefixes maps each role to its recognized method-name prefixes.
// Matching is case-insensitive so Go-exported names like Given_a_user work.
var rolePrefixes = map[Role][]string{
	RoleArrange:  {"before_", "given_", "arrange_"},
	RoleAct:      {"act_", "do_"},
	RoleTeardown: {"after_", "finally_"},
	RoleExample:  {"when_", "it_", "should_", "then_", "assert_"},
}

// RoleOf returns the role a method name declares, if any.
func RoleOf(name string) (Role, bool) {
	lower := strings.ToLower(name)

	for role, prefixes := range rolePrefixes {
		for _, prefix := range prefixes {
			if strings.HasPrefix(lower, prefix) {
				return role, true
			}
		}
	}

	return 0, false
}

// normalize renders a convention name for humans: separators become spaces.
func normalize(name, sep string) string {
	if sep == "" {
		return name
	}

	return strings.ReplaceAll(name, sep, " ")
}
