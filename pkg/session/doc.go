// Package session is the orchestrator of the reactive synchronization
// engine. A Session keeps a single bidirectional channel to the remote
// computation process, multiplexes named value, error and progress
// notifications over it, and drives the binding registry that renders
// incoming values.
//
// Control flow: a local value change, usually paced through pkg/ratelimit,
// enters via SendInput, is serialized as an "update" message and handed to
// the channel, which buffers it until the transport is ready. Inbound
// frames are decoded and dispatched in strict order: errors, a global
// progress-clear sweep, the value batch, progress markers.
//
// The engine's logical model is a single-threaded event loop: a dedicated
// dispatch mutex serializes inbound processing, so one frame's dispatch is
// atomic under Go's parallelism while binding callbacks stay free to send
// inputs or register further bindings.
package session
