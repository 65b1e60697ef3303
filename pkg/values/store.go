// Package values keeps the last known value per named slot and decides
// whether an incoming notification is worth forwarding.
package values

import (
	"reflect"
	"sync"
)

// errored is the sentinel stored for a slot in error state. It is a private
// type, so no caller-supplied value ever compares equal to it and the first
// SetValue after SetError always reports a change.
type errored struct{ msg string }

// Store maps slot names to their last delivered value. Entries are created
// on first notification and live for the store's lifetime.
type Store struct {
	mu     sync.Mutex
	values map[string]any
}

func NewStore() *Store {
	return &Store{values: make(map[string]any)}
}

// SetValue records v for key and reports whether it differed from the prior
// value under strict equality. Values of non-comparable dynamic type (maps,
// slices, funcs) never compare equal: two structurally equal but distinct
// values still count as changed, matching reference-identity semantics.
func (s *Store) SetValue(key string, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, existed := s.values[key]
	s.values[key] = v
	if !existed {
		return true
	}
	return !strictEqual(old, v)
}

// SetError marks key as errored, replacing any stored value. Errors are
// never suppressed, so this always counts as a change.
func (s *Store) SetError(key, message string) {
	s.mu.Lock()
	s.values[key] = errored{msg: message}
	s.mu.Unlock()
}

// Get returns the stored value for key. ok is false when the slot has never
// been notified; inError reports whether the slot is in error state.
func (s *Store) Get(key string) (v any, ok bool, inError bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok = s.values[key]
	if _, bad := v.(errored); bad {
		return nil, ok, true
	}
	return v, ok, false
}

// ErrorMessage returns the recorded message for a slot in error state.
func (s *Store) ErrorMessage(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.values[key].(errored); ok {
		return e.msg, true
	}
	return "", false
}

// Len reports the number of slots ever notified.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}

// strictEqual compares two dynamic values with ==, treating values whose
// type does not support == as never equal.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}
