// Package evaluator is the per-message evaluator, per spec.md §4.5: for
// each incoming message it parses JSON, walks the NeedleSet, and for each
// needle resolves the pointer, runs filter then action, and either formats
// and stores the value, records a NULL, or signals drop/error for the whole
// message.
package evaluator

import (
	"encoding/json"

	"github.com/bc-dunia/projector/internal/action"
	"github.com/bc-dunia/projector/internal/codec"
	"github.com/bc-dunia/projector/internal/filter"
	"github.com/bc-dunia/projector/internal/hookmsg"
	"github.com/bc-dunia/projector/internal/jsonpointer"
	"github.com/bc-dunia/projector/internal/jsonrender"
	"github.com/bc-dunia/projector/internal/needle"
	"github.com/bc-dunia/projector/internal/row"
)

// Outcome is the evaluator's per-message result.
type Outcome int

const (
	// Keep means the message payload was replaced with a binary row.
	Keep Outcome = iota
	// Drop means the message payload is left semantically unchanged —
	// either a silent filter/action decision (err == nil) or a logged
	// contract/format diagnostic (err != nil).
	Drop
)

// Evaluator evaluates messages against one compiled, immutable NeedleSet.
// A single Evaluator is shared read-only across concurrent invocations: no
// field of set is ever mutated after construction, and Evaluate allocates
// only message-local scratch state (slots), per spec.md §9's DESIGN NOTES
// re-architecture of the "shallow copy for thread safety" pattern.
type Evaluator struct {
	set *needle.NeedleSet
}

// New builds an Evaluator over a compiled NeedleSet.
func New(set *needle.NeedleSet) *Evaluator {
	return &Evaluator{set: set}
}

// Evaluate runs the per-message algorithm of spec.md §4.5 against msg,
// mutating it in place on Keep and leaving it untouched on Drop.
func (e *Evaluator) Evaluate(msg hookmsg.Message) (Outcome, error) {
	data := msg.Data()
	n := msg.Len()
	if n < 0 || n >= len(data) || data[n] != 0 {
		return Drop, &ContractError{Reason: "payload not null-terminated at declared length"}
	}

	var doc any
	if err := json.Unmarshal(data[:n], &doc); err != nil {
		return Drop, &ContractError{Reason: "invalid JSON payload", Cause: err}
	}

	needles := e.set.Needles
	slots := make([]codec.Slot, len(needles))
	defer disposeAll(needles, slots)

	var (
		metaValue string
		haveMeta  bool
	)

	for i, nd := range needles {
		value, resolved := jsonpointer.Resolve(doc, nd.Pointer)

		pred, _ := filter.Lookup(nd.Filter)
		filterResult := pred(resolved, value, nd.FilterArg)

		actionEntry, _ := action.Lookup(nd.Action)
		if !actionEntry.Decide(filterResult, resolved, value) {
			return Drop, nil
		}

		if !resolved {
			slots[i].Null = true
			continue
		}

		typeEntry, _ := codec.Lookup(nd.OutputType)
		if !typeEntry.Format(value, &slots[i]) {
			rendered, _ := jsonrender.Render(value)
			return Drop, &FormatError{Pointer: nd.Pointer, Value: rendered}
		}

		if actionEntry.MetaPublish && value != nil {
			metaValue = string(slots[i].Data)
			haveMeta = true
		}
	}

	builder := row.NewBuilder(e.set.FieldsCount)
	for i, nd := range needles {
		if !nd.Stored {
			continue
		}
		var err error
		if slots[i].Null {
			err = builder.WriteNull()
		} else {
			err = builder.WriteField(slots[i].Data)
		}
		if err != nil {
			return Drop, err
		}
	}

	out := builder.Bytes()
	msg.SetData(out)
	msg.SetLen(len(out))
	if haveMeta {
		msg.Metadata().Set(hookmsg.MetaKeyJPointer, metaValue)
	}
	return Keep, nil
}

func disposeAll(needles []needle.Needle, slots []codec.Slot) {
	for i := range slots {
		if slots[i].Null {
			continue
		}
		typeEntry, ok := codec.Lookup(needles[i].OutputType)
		if ok && typeEntry.Dispose != nil {
			typeEntry.Dispose(&slots[i])
		}
	}
}
