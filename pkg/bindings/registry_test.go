package bindings

import (
	"errors"
	"testing"
)

func TestRegisterRejectsEmptyKey(t *testing.T) {
	r := NewRegistry()
	err := r.Register("", Func(func(any) {}))
	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("failed registration mutated registry")
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	var firstCalled bool
	if err := r.Register("x", Func(func(any) { firstCalled = true })); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := r.Register("x", Func(func(any) { t.Fatal("second binding must not win") }))
	if !errors.Is(err, ErrDuplicateBinding) {
		t.Fatalf("expected ErrDuplicateBinding, got %v", err)
	}
	got, ok := r.Get("x")
	if !ok {
		t.Fatalf("original binding lost")
	}
	got.OnValueChange(nil)
	if !firstCalled {
		t.Fatalf("original binding replaced")
	}
	if r.Len() != 1 {
		t.Fatalf("registry size changed on failed registration: %d", r.Len())
	}
}

func TestForEachVisitsAll(t *testing.T) {
	r := NewRegistry()
	for _, k := range []string{"a", "b", "c"} {
		if err := r.Register(k, Func(func(any) {})); err != nil {
			t.Fatalf("register %s: %v", k, err)
		}
	}
	seen := map[string]bool{}
	r.ForEach(func(k string, b Binding) { seen[k] = true })
	if len(seen) != 3 {
		t.Fatalf("ForEach visited %d of 3", len(seen))
	}
}

func TestBaseProvidesOptionalCapabilities(t *testing.T) {
	type textBinding struct {
		Base
		Func
	}
	var b Binding = textBinding{Func: Func(func(any) {})}
	if _, ok := b.(ErrorReceiver); !ok {
		t.Fatalf("Base should satisfy ErrorReceiver")
	}
	if _, ok := b.(ProgressReceiver); !ok {
		t.Fatalf("Base should satisfy ProgressReceiver")
	}
}
