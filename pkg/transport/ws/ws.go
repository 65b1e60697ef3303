// Package ws implements the websocket transport. Frames are text when the
// negotiated subprotocol carries JSON and binary when it carries CBOR.
package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/al-yap/shiny/pkg/protocol/codec"
	"github.com/al-yap/shiny/pkg/transport"
)

// Dialer dials websocket endpoints requesting the given subprotocol.
type Dialer struct {
	Subprotocol string
}

// New returns a Dialer for the given subprotocol (codec.SubprotocolJSON when empty).
func New(subprotocol string) *Dialer {
	if subprotocol == "" {
		subprotocol = codec.SubprotocolJSON
	}
	return &Dialer{Subprotocol: subprotocol}
}

func (d *Dialer) Dial(ctx context.Context, url string) (transport.Conn, error) {
	wd := websocket.Dialer{Subprotocols: []string{d.Subprotocol}}
	c, resp, err := wd.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	mt := websocket.TextMessage
	if c.Subprotocol() == codec.SubprotocolCBOR {
		mt = websocket.BinaryMessage
	}
	return &conn{c: c, msgType: mt}, nil
}

type conn struct {
	c       *websocket.Conn
	msgType int

	wmu    sync.Mutex // gorilla allows one concurrent writer only
	closed sync.Once
}

// Subprotocol reports the subprotocol the server accepted.
func (c *conn) Subprotocol() string { return c.c.Subprotocol() }

func (c *conn) ReadFrame(ctx context.Context) ([]byte, error) {
	if dl, ok := ctx.Deadline(); ok {
		_ = c.c.SetReadDeadline(dl)
	}
	_, data, err := c.c.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, transport.ErrClosed
		}
		return nil, err
	}
	return data, nil
}

func (c *conn) WriteFrame(ctx context.Context, payload []byte) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if dl, ok := ctx.Deadline(); ok {
		_ = c.c.SetWriteDeadline(dl)
	}
	return c.c.WriteMessage(c.msgType, payload)
}

func (c *conn) Close() error {
	var err error
	c.closed.Do(func() {
		_ = c.c.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), closeDeadline())
		err = c.c.Close()
	})
	return err
}

func closeDeadline() time.Time { return time.Now().Add(time.Second) }
