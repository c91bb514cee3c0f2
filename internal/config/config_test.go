package config

import "testing"

func TestNormalizeBareString(t *testing.T) {
	out, err := Normalize([]any{"/a"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	want := out[0]
	if want.Pointer != "/a" || want.OutputType != "text" || want.Action != "store" || want.Filter != "noop" {
		t.Fatalf("Normalize(bare string) = %+v, want defaults applied", want)
	}
}

func TestNormalizePositionalArray(t *testing.T) {
	out, err := Normalize([]any{
		[]any{"/t", "timestamp"},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	got := out[0]
	if got.Pointer != "/t" || got.OutputType != "timestamp" || got.Action != "store" || got.Filter != "noop" {
		t.Fatalf("Normalize(array) = %+v, want positional+defaults", got)
	}
}

func TestNormalizePositionalArrayFull(t *testing.T) {
	out, err := Normalize([]any{
		[]any{"/k", "text", "discard_false", "match", "yes"},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	got := out[0]
	if got.Pointer != "/k" || got.Action != "discard_false" || got.Filter != "match" || got.FilterArg != "yes" {
		t.Fatalf("Normalize(full array) = %+v", got)
	}
}

func TestNormalizeGroupForm(t *testing.T) {
	out, err := Normalize([]any{
		map[string]any{"jpointer": "/a", "pqtype": "timestamp"},
	})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	got := out[0]
	if got.Pointer != "/a" || got.OutputType != "timestamp" || got.Action != "store" || got.Filter != "noop" {
		t.Fatalf("Normalize(group) = %+v", got)
	}
}

func TestNormalizeRejectsUnknownEnum(t *testing.T) {
	_, err := Normalize([]any{
		map[string]any{"jpointer": "/a", "action": "bogus"},
	})
	if err == nil {
		t.Fatalf("Normalize with unknown action: expected error")
	}
}

func TestNormalizeRequiresDataForMatch(t *testing.T) {
	_, err := Normalize([]any{
		map[string]any{"jpointer": "/a", "filter": "match"},
	})
	if err == nil {
		t.Fatalf("Normalize with filter=match and no data: expected error")
	}
}

func TestNormalizeRejectsEmptyPointer(t *testing.T) {
	_, err := Normalize([]any{""})
	if err == nil {
		t.Fatalf("Normalize with empty pointer: expected error")
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := []any{
		"/a",
		[]any{"/b", "timestamp"},
		map[string]any{"jpointer": "/c", "filter": "substr", "data": "x"},
	}
	first, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize (first pass): %v", err)
	}
	second, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize (second pass): %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("pass lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("tuple %d differs between passes: %+v vs %+v", i, first[i], second[i])
		}
	}
}
