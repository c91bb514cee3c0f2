// Package hookmsg defines the external Message contract the projector hook
// consumes: an opaque payload with get/set data and length, plus a metadata
// map, matching spec.md's "Message (external)" data model exactly. It also
// provides a concrete in-memory implementation used by tests, cmd/ingestd,
// and anything that doesn't already have its own producer message type.
package hookmsg

// Metadata is the key/value side-channel a message carries alongside its
// payload. store_meta needles publish into it under the well-known key
// MetaKeyJPointer.
type Metadata interface {
	Set(key, value string)
	Get(key string) (string, bool)
}

// MetaKeyJPointer is the metadata key store_meta needles publish under.
const MetaKeyJPointer = "jpointer"

// Message is the producer/consumer contract the projector hook operates on.
// The payload returned by Data MUST be null-terminated at offset Len(): that
// invariant is the producer's responsibility and is checked by the evaluator
// on every call.
type Message interface {
	Data() []byte
	Len() int
	SetData(data []byte)
	SetLen(n int)
	Metadata() Metadata
}

// MapMessage is a minimal in-memory Message implementation backed by a byte
// slice and a map. NewMapMessage appends the null terminator the hook
// contract requires.
type MapMessage struct {
	data []byte
	size int
	meta metadataMap
}

type metadataMap map[string]string

func (m metadataMap) Set(key, value string) { m[key] = value }

func (m metadataMap) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// NewMapMessage wraps payload in a Message whose backing buffer is
// null-terminated at len(payload), as the producer contract requires.
func NewMapMessage(payload []byte) *MapMessage {
	buf := make([]byte, len(payload)+1)
	copy(buf, payload)
	return &MapMessage{data: buf, size: len(payload), meta: make(metadataMap)}
}

func (m *MapMessage) Data() []byte { return m.data }

func (m *MapMessage) Len() int { return m.size }

// SetData replaces the payload. The new buffer does not need a null
// terminator: once the hook returns Keep, the payload is a binary row
// consumed by length-prefixed framing, not by further hook invocations.
func (m *MapMessage) SetData(data []byte) {
	m.data = data
}

func (m *MapMessage) SetLen(n int) { m.size = n }

func (m *MapMessage) Metadata() Metadata { return m.meta }
