package action

import "testing"

func TestStoreAlwaysKeeps(t *testing.T) {
	e, ok := Lookup("store")
	if !ok {
		t.Fatalf("store action not registered")
	}
	if !e.Decide(false, false, nil) || !e.Stored {
		t.Fatalf("store: Decide=%v Stored=%v, want true, true", e.Decide(false, false, nil), e.Stored)
	}
}

func TestStoreTrueFollowsFilter(t *testing.T) {
	e, _ := Lookup("store_true")
	if e.Decide(false, true, "x") {
		t.Fatalf("store_true with filterResult=false kept message")
	}
	if !e.Decide(true, true, "x") {
		t.Fatalf("store_true with filterResult=true dropped message")
	}
	if !e.Stored {
		t.Fatalf("store_true.Stored = false, want true")
	}
}

func TestDiscardFalseNotStored(t *testing.T) {
	e, _ := Lookup("discard_false")
	if e.Stored {
		t.Fatalf("discard_false.Stored = true, want false")
	}
	if e.Decide(false, true, "x") {
		t.Fatalf("discard_false(false) kept message, want drop")
	}
	if !e.Decide(true, true, "x") {
		t.Fatalf("discard_false(true) dropped message, want keep")
	}
}

func TestDiscardTrueInvertsFilter(t *testing.T) {
	e, _ := Lookup("discard_true")
	if !e.Decide(false, true, "x") {
		t.Fatalf("discard_true(false) dropped message, want keep")
	}
	if e.Decide(true, true, "x") {
		t.Fatalf("discard_true(true) kept message, want drop")
	}
}

func TestStoreMetaPublishes(t *testing.T) {
	e, _ := Lookup("store_meta")
	if !e.MetaPublish {
		t.Fatalf("store_meta.MetaPublish = false, want true")
	}
	if !e.Stored {
		t.Fatalf("store_meta.Stored = false, want true")
	}
	if !e.Decide(false, false, nil) {
		t.Fatalf("store_meta should always keep the message")
	}
}
