// Package mem is an in-process transport delivering whole frames over
// buffered channels. Useful for tests and for embedding the remote process
// in the same binary.
package mem

import (
	"context"
	"sync"

	"github.com/al-yap/shiny/pkg/transport"
)

const frameBuffer = 64

// Pair returns two connected ends. Frames written to one end are read from
// the other, in write order. Closing either end closes both.
func Pair() (transport.Conn, transport.Conn) {
	ab := make(chan []byte, frameBuffer)
	ba := make(chan []byte, frameBuffer)
	done := make(chan struct{})
	var once sync.Once
	closeBoth := func() { once.Do(func() { close(done) }) }
	a := &conn{in: ba, out: ab, done: done, close: closeBoth}
	b := &conn{in: ab, out: ba, done: done, close: closeBoth}
	return a, b
}

// Dialer hands out the client end of a fixed pair; the server end is
// available via Server. Dial ignores the URL.
type Dialer struct {
	mu     sync.Mutex
	client transport.Conn
	server transport.Conn
}

func NewDialer() *Dialer {
	c, s := Pair()
	return &Dialer{client: c, server: s}
}

func (d *Dialer) Dial(ctx context.Context, url string) (transport.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.client, nil
}

// Server returns the remote end of the pair.
func (d *Dialer) Server() transport.Conn {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.server
}

type conn struct {
	in    <-chan []byte
	out   chan<- []byte
	done  chan struct{}
	close func()
}

func (c *conn) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		// Drain frames written before close so orderly shutdown does not
		// drop deliveries already in flight.
		select {
		case f := <-c.in:
			return f, nil
		default:
			return nil, transport.ErrClosed
		}
	case f := <-c.in:
		return f, nil
	}
}

func (c *conn) WriteFrame(ctx context.Context, payload []byte) error {
	buf := append([]byte(nil), payload...)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return transport.ErrClosed
	case c.out <- buf:
		return nil
	}
}

func (c *conn) Close() error {
	c.close()
	return nil
}
