package transport

import (
	"context"
	"errors"
)

// ErrClosed is returned for reads and writes on a closed connection.
var ErrClosed = errors.New("transport: connection closed")

// Conn is one persistent bidirectional framed connection to the remote
// computation process. Exactly one reader goroutine is expected; writes may
// come from multiple goroutines and implementations must serialize them.
type Conn interface {
	// ReadFrame blocks until the next whole frame arrives, the context is
	// canceled, or the connection closes (ErrClosed).
	ReadFrame(ctx context.Context) ([]byte, error)
	// WriteFrame transmits one whole frame.
	WriteFrame(ctx context.Context, payload []byte) error
	Close() error
}

// Dialer establishes connections. The subprotocol requested during dialing
// selects the frame codec (see pkg/protocol/codec).
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}
