package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/al-yap/shiny/pkg/transport"
)

// ErrChannelClosed is returned for sends after the channel reached Closed.
// Closing is terminal; there is no reconnect at this layer.
var ErrChannelClosed = errors.New("session: channel closed")

type channelState int

const (
	stateConnecting channelState = iota
	stateOpen
	stateClosed
)

// channel owns the transport connection for one session. Frames sent while
// the connection is still being established are buffered FIFO and drained,
// after the init frame, the moment the transport becomes ready.
type channel struct {
	log *zap.Logger

	mu      sync.Mutex
	state   channelState
	conn    transport.Conn
	pending [][]byte

	onMessage func(frame []byte)
	onClose   func()
	closeOnce sync.Once
}

func newChannel(log *zap.Logger, onMessage func([]byte), onClose func()) *channel {
	return &channel{log: log, onMessage: onMessage, onClose: onClose}
}

// open dials in the background, transmits the init frame on readiness,
// drains the pending queue in enqueue order, then runs the read loop.
// It returns immediately. ctx bounds connection establishment only; the
// read loop runs for the channel's lifetime.
func (c *channel) open(ctx context.Context, d transport.Dialer, url string, initFrame []byte) {
	go func() {
		conn, err := d.Dial(ctx, url)
		if err != nil {
			c.log.Warn("dial failed", zap.String("url", url), zap.Error(err))
			c.shutdown(nil)
			return
		}
		c.mu.Lock()
		if c.state == stateClosed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.conn = conn
		if err := conn.WriteFrame(ctx, initFrame); err != nil {
			c.mu.Unlock()
			c.log.Warn("init send failed", zap.Error(err))
			c.shutdown(conn)
			return
		}
		for _, frame := range c.pending {
			if err := conn.WriteFrame(ctx, frame); err != nil {
				c.mu.Unlock()
				c.log.Warn("pending drain failed", zap.Error(err))
				c.shutdown(conn)
				return
			}
		}
		c.pending = nil
		c.state = stateOpen
		c.mu.Unlock()

		c.readLoop(context.Background(), conn)
	}()
}

func (c *channel) readLoop(ctx context.Context, conn transport.Conn) {
	for {
		frame, err := conn.ReadFrame(ctx)
		if err != nil {
			if !errors.Is(err, transport.ErrClosed) && !errors.Is(err, context.Canceled) {
				c.log.Warn("read failed", zap.Error(err))
			}
			c.shutdown(conn)
			return
		}
		c.onMessage(frame)
	}
}

// send transmits frame immediately when open, buffers it while connecting,
// and fails with ErrChannelClosed after close.
func (c *channel) send(ctx context.Context, frame []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case stateConnecting:
		c.pending = append(c.pending, frame)
		return nil
	case stateOpen:
		return c.conn.WriteFrame(ctx, frame)
	default:
		return ErrChannelClosed
	}
}

// close makes the channel terminal from the local side.
func (c *channel) close() {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	c.shutdown(conn)
}

// shutdown moves the channel to Closed exactly once and fires onClose.
func (c *channel) shutdown(conn transport.Conn) {
	c.mu.Lock()
	already := c.state == stateClosed
	c.state = stateClosed
	c.pending = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	if !already {
		c.closeOnce.Do(func() {
			if c.onClose != nil {
				c.onClose()
			}
		})
	}
}
