// Package protocol defines the wire messages exchanged with the remote
// computation process. Outbound messages carry input snapshots and updates;
// inbound messages carry value, error and progress notifications keyed by
// slot name.
package protocol

import (
	"github.com/al-yap/shiny/pkg/protocol/codec"
)

// Outbound method names.
const (
	MethodInit   = "init"
	MethodUpdate = "update"
)

// Outbound is a client-to-server message: the initial input snapshot
// (MethodInit, sent exactly once when the channel becomes ready) or a
// batched input update (MethodUpdate).
type Outbound struct {
	Method string         `json:"method" cbor:"method"`
	Data   map[string]any `json:"data" cbor:"data"`
}

// Init builds the one-shot initialization message.
func Init(data map[string]any) Outbound { return Outbound{Method: MethodInit, Data: data} }

// Update builds a batched input-update message.
func Update(data map[string]any) Outbound { return Outbound{Method: MethodUpdate, Data: data} }

// ErrorInfo describes a remote computation error for one slot.
// Unknown fields in the wire form are ignored.
type ErrorInfo struct {
	Message string `json:"message" cbor:"message"`
}

func (e ErrorInfo) Error() string { return e.Message }

// Inbound is a server-to-client notification frame. Every field is optional;
// an absent field decodes to its zero value and means "no entries".
type Inbound struct {
	Errors   map[string]ErrorInfo `json:"errors,omitempty" cbor:"errors,omitempty"`
	Values   map[string]any       `json:"values,omitempty" cbor:"values,omitempty"`
	Progress []string             `json:"progress,omitempty" cbor:"progress,omitempty"`
}

// DecodeInbound parses one inbound frame with the given codec.
func DecodeInbound(c codec.Codec, frame []byte) (Inbound, error) {
	var in Inbound
	if err := c.Unmarshal(frame, &in); err != nil {
		return Inbound{}, err
	}
	return in, nil
}

// EncodeOutbound serializes one outbound message with the given codec.
func EncodeOutbound(c codec.Codec, m Outbound) ([]byte, error) {
	return c.Marshal(m)
}
