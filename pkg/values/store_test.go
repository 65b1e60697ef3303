package values

import (
	"testing"
)

func TestSetValueSuppressesRepeat(t *testing.T) {
	s := NewStore()
	if !s.SetValue("k", 5) {
		t.Fatalf("first set must report changed")
	}
	if s.SetValue("k", 5) {
		t.Fatalf("identical value must be suppressed")
	}
	if !s.SetValue("k", 6) {
		t.Fatalf("new value must report changed")
	}
}

func TestSetValueDistinctNonComparable(t *testing.T) {
	s := NewStore()
	s.SetValue("k", map[string]any{"a": 1})
	// Structurally equal but distinct composite values still propagate.
	if !s.SetValue("k", map[string]any{"a": 1}) {
		t.Fatalf("non-comparable values must always count as changed")
	}
}

func TestSetErrorAlwaysChanges(t *testing.T) {
	s := NewStore()
	s.SetValue("k", 1)
	s.SetError("k", "boom")
	if _, ok, inErr := s.Get("k"); !ok || !inErr {
		t.Fatalf("slot should exist in error state: ok=%v inErr=%v", ok, inErr)
	}
	// The error sentinel never equals a caller value.
	if !s.SetValue("k", 1) {
		t.Fatalf("value after error must report changed")
	}
}

func TestGetUnknownSlot(t *testing.T) {
	s := NewStore()
	if _, ok, _ := s.Get("missing"); ok {
		t.Fatalf("unknown slot reported as present")
	}
}

func TestNilValues(t *testing.T) {
	s := NewStore()
	if !s.SetValue("k", nil) {
		t.Fatalf("first nil must report changed")
	}
	if s.SetValue("k", nil) {
		t.Fatalf("repeated nil must be suppressed")
	}
	if !s.SetValue("k", 0) {
		t.Fatalf("nil to zero must report changed")
	}
}
