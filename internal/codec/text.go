package codec

import (
	"github.com/bc-dunia/projector/internal/jsonrender"
	"golang.org/x/text/unicode/norm"
)

// formatText writes the NFC-normalized UTF-8 string rendering of value into
// slot. The rendering is a fresh []byte (Go offers no safe zero-copy
// string->[]byte view), so Owned is left false to record that the bytes are
// conceptually tied to this message's JSON tree rather than independently
// heap-owned by the slot, matching spec.md §3's EvalSlot ownership model.
func formatText(value any, slot *Slot) bool {
	s, ok := jsonrender.Render(value)
	if !ok {
		return false
	}
	s = norm.NFC.String(s)
	slot.Data = []byte(s)
	slot.Null = false
	slot.Owned = false
	return true
}
