// Package transport defines the framed connection contract the session's
// channel runs on, decoupled from any concrete wire technology. The ws
// subpackage provides the production websocket implementation; the mem
// subpackage provides an in-process pair for tests and embedding.
package transport
