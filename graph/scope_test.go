package graph

import "testing"

func TestScope_LastWriteWins(t *testing.T) {
	s := NewScope()
	s.Set("A", "v", "first")
	s.Set("A", "v", "second")

	v, ok := s.Get("A", "v")
	if !ok || v != "second" {
		t.Fatalf("expected last write 'second', got %v (ok=%v)", v, ok)
	}
}

func TestScope_Snapshot(t *testing.T) {
	s := NewScope()
	s.Set("A", "v", "A")
	s.Set("B", "v", "B")

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("expected 2 snapshot entries, got %d", len(snap))
	}
	if snap["A:v"] != "A" || snap["B:v"] != "B" {
		t.Fatalf("unexpected snapshot contents: %#v", snap)
	}
}

func TestScope_UnsetGet(t *testing.T) {
	s := NewScope()
	if _, ok := s.Get("missing", "pin"); ok {
		t.Fatal("expected ok=false for unset key")
	}
}

func TestBlackboard_SetGetDelete(t *testing.T) {
	b := NewBlackboard()
	if _, ok := b.Get("k"); ok {
		t.Fatal("expected unset key to report ok=false")
	}

	b.Set("k", 1)
	v, ok := b.Get("k")
	if !ok || v != 1 {
		t.Fatalf("expected 1, got %v (ok=%v)", v, ok)
	}

	b.Delete("k")
	if _, ok := b.Get("k"); ok {
		t.Fatal("expected key removed after Delete")
	}
}

func TestBlackboard_Clone(t *testing.T) {
	b := NewBlackboard()
	b.Set("k", "v")

	clone := b.Clone()
	clone.Set("k", "other")

	if v, _ := b.Get("k"); v != "v" {
		t.Fatalf("mutating clone affected original: %v", v)
	}
}
