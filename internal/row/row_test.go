package row

import (
	"encoding/binary"
	"testing"
)

func TestFieldsCountHeader(t *testing.T) {
	b := NewBuilder(2)
	if err := b.WriteField([]byte("x")); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := b.WriteNull(); err != nil {
		t.Fatalf("WriteNull: %v", err)
	}
	got := b.Bytes()
	if binary.BigEndian.Uint16(got[0:2]) != 2 {
		t.Fatalf("header = %d, want 2", binary.BigEndian.Uint16(got[0:2]))
	}
}

func TestBoundaryScenarioMissingPointerTwoFields(t *testing.T) {
	// spec.md §8 scenario 6: [("/a","text","store","noop"), ("/b","text","store","noop")],
	// input {"a":"x"} -> 00 02 00 00 00 01 'x' FF FF FF FF
	b := NewBuilder(2)
	if err := b.WriteField([]byte("x")); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	if err := b.WriteNull(); err != nil {
		t.Fatalf("WriteNull: %v", err)
	}
	want := []byte{0x00, 0x02, 0x00, 0x00, 0x00, 0x01, 'x', 0xFF, 0xFF, 0xFF, 0xFF}
	got := b.Bytes()
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d (% x)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x (got % x)", i, got[i], want[i], got)
		}
	}
}

func TestBoundaryScenarioTimestampMinimum(t *testing.T) {
	// spec.md §8 scenario 1: single timestamp needle, value 2000-01-01T00:00:00Z
	// -> 00 01 00 00 00 08 00 00 00 00 00 00 00 00
	b := NewBuilder(1)
	if err := b.WriteField(make([]byte, 8)); err != nil {
		t.Fatalf("WriteField: %v", err)
	}
	want := []byte{0x00, 0x01, 0x00, 0x00, 0x00, 0x08, 0, 0, 0, 0, 0, 0, 0, 0}
	got := b.Bytes()
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestWriteFieldRejectsOversizedField(t *testing.T) {
	b := NewBuilder(1)
	if err := b.WriteField(make([]byte, MaxRowBytes+1)); err == nil {
		t.Fatalf("WriteField with oversized data: expected error")
	}
}
