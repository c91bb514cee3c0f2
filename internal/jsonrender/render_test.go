package jsonrender

import "testing"

func TestRenderString(t *testing.T) {
	s, ok := Render("hello")
	if !ok || s != "hello" {
		t.Fatalf("Render(string) = %q, %v; want hello, true", s, ok)
	}
}

func TestRenderNumber(t *testing.T) {
	s, ok := Render(float64(5))
	if !ok || s != "5" {
		t.Fatalf("Render(5) = %q, %v; want 5, true", s, ok)
	}
}

func TestRenderBool(t *testing.T) {
	s, ok := Render(true)
	if !ok || s != "true" {
		t.Fatalf("Render(true) = %q, %v; want true, true", s, ok)
	}
}

func TestRenderNull(t *testing.T) {
	s, ok := Render(nil)
	if !ok || s != "null" {
		t.Fatalf("Render(nil) = %q, %v; want null, true", s, ok)
	}
}

func TestRenderObject(t *testing.T) {
	s, ok := Render(map[string]any{"a": float64(1)})
	if !ok || s != `{"a":1}` {
		t.Fatalf("Render(object) = %q, %v; want {\"a\":1}, true", s, ok)
	}
}
