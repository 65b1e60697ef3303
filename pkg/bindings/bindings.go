// Package bindings defines the output-handler capability set and the
// registry the session dispatches notifications through.
package bindings

import (
	"github.com/al-yap/shiny/pkg/protocol"
)

// Binding reacts to value notifications for one named slot. OnValueChange is
// the only mandatory capability; error and progress handling are optional
// and discovered by type assertion (see ErrorReceiver, ProgressReceiver).
type Binding interface {
	OnValueChange(v any)
}

// ErrorReceiver is the optional capability invoked for remote computation
// errors addressed to the binding's slot.
type ErrorReceiver interface {
	OnValueError(err protocol.ErrorInfo)
}

// ProgressReceiver is the optional capability toggling an in-flight
// recomputation indicator.
type ProgressReceiver interface {
	ShowProgress(active bool)
}

// Base provides no-op defaults for the optional capabilities. Embed it and
// override what the concrete renderer needs.
type Base struct{}

func (Base) OnValueError(err protocol.ErrorInfo) {}
func (Base) ShowProgress(active bool)            {}

// Func adapts a plain function to a value-only Binding.
type Func func(v any)

func (f Func) OnValueChange(v any) { f(v) }
