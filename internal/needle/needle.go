// Package needle compiles normalized configuration tuples into the
// projector's NeedleSet, per spec.md §4.1 and §3. The NeedleSet is immutable
// once built: no needle field is ever mutated after Compile returns, so
// concurrent evaluators can share one NeedleSet without locking.
package needle

import (
	"fmt"

	"github.com/bc-dunia/projector/internal/action"
)

// Tuple is the needle compiler's input: one normalized 5-tuple produced by
// the configuration validator (internal/config), per spec.md §4.1.
type Tuple struct {
	Pointer    string
	OutputType string
	Action     string
	Filter     string
	FilterArg  string
}

// Needle is one compiled declarative extraction rule, per spec.md §3.
type Needle struct {
	Pointer    string
	OutputType string
	Action     string
	Filter     string
	FilterArg  string
	// Stored is true iff this needle's action can contribute an output
	// field — a static property derived from the action at compile time.
	Stored bool
}

// NeedleSet is the ordered, immutable sequence of compiled needles. Order is
// authoritative: it defines the emitted row's column order.
type NeedleSet struct {
	Needles []Needle
	// FieldsCount is the number of needles whose Stored is true, fixed at
	// compile time. It is the 16-bit count written into every row,
	// regardless of how many needles locate NULL at evaluation time.
	FieldsCount int
}

// Compile builds a NeedleSet from normalized tuples. Enum values are assumed
// already validated by internal/config (spec.md §4.1: "unknown enum values
// are rejected upstream in the validator") — Compile itself checks only that
// every needle's pointer is non-empty and that its action is registered
// (the action's Stored flag is needed to derive FieldsCount).
func Compile(tuples []Tuple) (*NeedleSet, error) {
	ns := &NeedleSet{Needles: make([]Needle, 0, len(tuples))}

	for i, t := range tuples {
		if t.Pointer == "" {
			return nil, fmt.Errorf("needle %d: pointer must not be empty", i)
		}

		actionEntry, ok := action.Lookup(t.Action)
		if !ok {
			return nil, fmt.Errorf("needle %d: unknown action %q", i, t.Action)
		}

		n := Needle{
			Pointer:    t.Pointer,
			OutputType: t.OutputType,
			Action:     t.Action,
			Filter:     t.Filter,
			Stored:     actionEntry.Stored,
		}
		if t.Filter == "match" || t.Filter == "substr" {
			n.FilterArg = t.FilterArg
		}

		ns.Needles = append(ns.Needles, n)
		if n.Stored {
			ns.FieldsCount++
		}
	}

	return ns, nil
}
