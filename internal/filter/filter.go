// Package filter is the filter registry: a static table of named predicates
// over a located JSON value, per spec.md §4.3. Filters never raise — a
// false result is valid input to the action registry.
package filter

import (
	"strings"

	"github.com/bc-dunia/projector/internal/jsonrender"
	"github.com/bc-dunia/projector/internal/registry"
)

// Predicate evaluates a filter against a resolved pointer. resolved reports
// whether the pointer located a value; value is that value or nil; arg is
// the needle's configured filter_arg (empty when the filter doesn't use
// one).
type Predicate func(resolved bool, value any, arg string) bool

var reg = registry.New[Predicate]()

func init() {
	reg.MustRegister("noop", noop)
	reg.MustRegister("exists", exists)
	reg.MustRegister("match", match)
	reg.MustRegister("substr", substr)
}

// Lookup retrieves a filter predicate by name.
func Lookup(name string) (Predicate, bool) {
	return reg.Get(name)
}

// Register adds a new filter to the registry.
func Register(name string, p Predicate) error {
	return reg.Register(name, p)
}

// Names lists every registered filter name.
func Names() []string {
	return reg.List()
}

func noop(bool, any, string) bool {
	return true
}

func exists(resolved bool, _ any, _ string) bool {
	return resolved
}

func match(resolved bool, value any, arg string) bool {
	if !resolved {
		return false
	}
	s, ok := jsonrender.Render(value)
	return ok && s == arg
}

func substr(resolved bool, value any, arg string) bool {
	if !resolved {
		return false
	}
	s, ok := jsonrender.Render(value)
	return ok && strings.Contains(s, arg)
}
