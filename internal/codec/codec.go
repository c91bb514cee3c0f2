// Package codec is the type codec registry: a static, extensible table
// mapping an output type tag to a formatter and a disposer, per spec.md
// §4.2. It is generalized from the teacher's internal/plugin registry
// pattern (bc-dunia-mcpdrill/internal/plugin/registry.go) via
// internal/registry.
package codec

import "github.com/bc-dunia/projector/internal/registry"

// Slot is the per-message, per-needle scratch object a formatter writes
// into: spec.md's EvalSlot. Null and Data==nil together mean "no value";
// Owned records whether Data was freshly allocated (timestamp) as opposed to
// borrowed from the rendering of the parsed JSON tree (text) — Go's garbage
// collector makes the distinction immaterial for memory safety, but it is
// kept to mirror the spec's ownership model and to let Dispose stay
// type-specific rather than a no-op everywhere.
type Slot struct {
	Data  []byte
	Null  bool
	Owned bool
}

// Formatter renders value into slot, returning false on parse/range failure.
type Formatter func(value any, slot *Slot) bool

// Disposer releases any resources Formatter attached to slot.
type Disposer func(slot *Slot)

// Entry binds an output type tag to its formatter and disposer.
type Entry struct {
	Tag     string
	Format  Formatter
	Dispose Disposer
}

var reg = registry.New[Entry]()

func init() {
	reg.MustRegister("text", Entry{Tag: "text", Format: formatText, Dispose: disposeNoop})
	reg.MustRegister("timestamp", Entry{Tag: "timestamp", Format: formatTimestamp, Dispose: disposeOwnedBuffer})
}

// Lookup retrieves a type entry by tag.
func Lookup(tag string) (Entry, bool) {
	return reg.Get(tag)
}

// Register adds a new output type to the registry. Exported so hosts can
// extend the type codec registry, per spec.md §2's "Extensible".
func Register(e Entry) error {
	return reg.Register(e.Tag, e)
}

// Names lists every registered output type tag.
func Names() []string {
	return reg.List()
}

func disposeNoop(*Slot) {}

func disposeOwnedBuffer(s *Slot) {
	s.Data = nil
}
