package config

import (
	"fmt"
	"slices"
)

// TriState is the value of an optional feature flag: the literal "auto"
// defers to the catalog predicate, while an explicit true/false overrides it.
type TriState uint8

const (
	Auto TriState = iota
	True
	False
)

// String returns the configuration-document spelling of the state.
func (t TriState) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "auto"
	}
}

// ParseTriState interprets a configuration scalar. Accepted spellings are
// the literal "auto" and the booleans "true"/"false".
func ParseTriState(s string) (TriState, error) {
	switch s {
	case "auto", "":
		return Auto, nil
	case "true":
		return True, nil
	case "false":
		return False, nil
	default:
		return Auto, fmt.Errorf("invalid flag value %q: must be true, false, or \"auto\"", s)
	}
}

// Database describes the persistence slice of the stack.
type Database struct {
	Type      string
	Migration string
}

// Infrastructure describes the deployment slice of the stack.
type Infrastructure struct {
	Container    string
	Orchestrator string
}

// Project is the raw user configuration. It is immutable once a loader
// returns it; the resolver copies it into a Resolved value rather than
// writing back.
type Project struct {
	Name           string
	Language       string
	Framework      string
	Database       Database
	Protocols      []string
	Infrastructure Infrastructure
	Options        map[string]TriState
}

// HasProtocol reports whether the given protocol was declared.
func (p *Project) HasProtocol(name string) bool {
	return slices.Contains(p.Protocols, name)
}

// Resolved is the Project with every catalog flag evaluated to a concrete
// boolean plus the values derived from the stack. It is created once per
// run and read-only afterwards.
type Resolved struct {
	Project

	// Flags holds one concrete value for every flag the catalog declares,
	// whether it came from a predicate or an explicit override.
	Flags map[string]bool

	BuildCommand string
	TestCommand  string
}

// Flag returns the resolved value of a catalog flag. Unknown ids resolve
// to false; the resolver guarantees every declared flag is present.
func (r *Resolved) Flag(id string) bool {
	return r.Flags[id]
}
