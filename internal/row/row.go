// Package row is the binary row serializer, per spec.md §4.6: a length-
// prefixed, network-byte-order row compatible with the downstream store's
// binary COPY protocol. Growth uses bytes.Buffer's built-in amortized
// doubling rather than a hand-rolled reallocation scheme, per spec.md §9's
// DESIGN NOTES.
package row

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// NullLength is the 32-bit sentinel written in place of a field's length to
// denote a NULL value: no bytes follow it.
const NullLength uint32 = 0xFFFFFFFF

// MaxRowBytes bounds a single emitted row. Exceeding it is this
// implementation's stand-in for spec.md §7's "resource exhaustion" category:
// in Go there is no recoverable allocation-failure signal, so an
// unreasonably large row is surfaced as a returned error instead (see
// DESIGN.md's Open Question decisions).
const MaxRowBytes = 64 * 1024 * 1024

// Builder accumulates one row's wire bytes: a 16-bit field count followed by
// each stored field as a 32-bit length (or NullLength) and its payload.
type Builder struct {
	buf         bytes.Buffer
	fieldsCount uint16
}

// NewBuilder starts a row for a NeedleSet with the given compile-time field
// count, writing the uint16 header immediately.
func NewBuilder(fieldsCount int) *Builder {
	b := &Builder{fieldsCount: uint16(fieldsCount)}
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], b.fieldsCount)
	b.buf.Write(hdr[:])
	return b
}

// WriteNull appends a NULL field record.
func (b *Builder) WriteNull() error {
	return b.writeLengthPrefixed(NullLength, nil)
}

// WriteField appends a field record holding data.
func (b *Builder) WriteField(data []byte) error {
	if len(data) > MaxRowBytes {
		return fmt.Errorf("row: field of %d bytes exceeds max row size %d", len(data), MaxRowBytes)
	}
	return b.writeLengthPrefixed(uint32(len(data)), data)
}

func (b *Builder) writeLengthPrefixed(length uint32, data []byte) error {
	if b.buf.Len()+4+len(data) > MaxRowBytes {
		return fmt.Errorf("row: buffer would exceed max row size %d bytes", MaxRowBytes)
	}
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], length)
	b.buf.Write(lenBuf[:])
	if len(data) > 0 {
		b.buf.Write(data)
	}
	return nil
}

// Bytes returns the row's accumulated wire bytes.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}
