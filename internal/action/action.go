// Package action is the action registry: a static table mapping a named
// action to a decision function over (filter_result, value_found), per
// spec.md §4.4. The decision answers "keep this message?"; Stored is a
// static property of the action driving row layout regardless of any
// runtime decision.
package action

import "github.com/bc-dunia/projector/internal/registry"

// Decide reports whether the message should be kept, given the filter's
// result, whether the needle's pointer resolved, and the resolved value (or
// nil).
type Decide func(filterResult, resolved bool, value any) bool

// Entry binds an action name to its decision function and static row-layout
// properties.
type Entry struct {
	Name string
	// Decide answers "keep this message?".
	Decide Decide
	// Stored is true iff this action contributes an output field.
	Stored bool
	// MetaPublish is true only for store_meta: when true and the needle's
	// pointer resolved to a non-null value, the evaluator publishes the
	// formatted value into the message's metadata map.
	MetaPublish bool
}

var reg = registry.New[Entry]()

func init() {
	reg.MustRegister("store", Entry{
		Name:   "store",
		Decide: func(bool, bool, any) bool { return true },
		Stored: true,
	})
	reg.MustRegister("store_true", Entry{
		Name:   "store_true",
		Decide: func(filterResult, _ bool, _ any) bool { return filterResult },
		Stored: true,
	})
	reg.MustRegister("discard_false", Entry{
		Name:   "discard_false",
		Decide: func(filterResult, _ bool, _ any) bool { return filterResult },
		Stored: false,
	})
	reg.MustRegister("discard_true", Entry{
		Name:   "discard_true",
		Decide: func(filterResult, _ bool, _ any) bool { return !filterResult },
		Stored: false,
	})
	reg.MustRegister("store_meta", Entry{
		Name:        "store_meta",
		Decide:      func(bool, bool, any) bool { return true },
		Stored:      true,
		MetaPublish: true,
	})
}

// Lookup retrieves an action entry by name.
func Lookup(name string) (Entry, bool) {
	return reg.Get(name)
}

// Register adds a new action to the registry.
func Register(e Entry) error {
	return reg.Register(e.Name, e)
}

// Names lists every registered action name.
func Names() []string {
	return reg.List()
}
