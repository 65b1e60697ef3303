package session

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/al-yap/shiny/pkg/bindings"
	"github.com/al-yap/shiny/pkg/protocol"
	"github.com/al-yap/shiny/pkg/protocol/codec"
	"github.com/al-yap/shiny/pkg/transport"
	"github.com/al-yap/shiny/pkg/values"
)

// ErrAlreadyConnected is returned when Connect is called twice. The first
// connection, its pending queue and all registered state stay untouched.
var ErrAlreadyConnected = errors.New("session: already connected")

// ErrNotConnected is returned for SendInput before Connect.
var ErrNotConnected = errors.New("session: not connected")

// Options configures a Session.
type Options struct {
	// URL of the remote computation endpoint.
	URL string
	// Dialer establishes the transport connection.
	Dialer transport.Dialer
	// Codec for wire frames; codec.JSON() when nil.
	Codec codec.Codec
	// Logger; zap.L() when nil.
	Logger *zap.Logger
	// OnDisconnect is the collaborator hook fired once when the channel
	// reaches Closed. Visual feedback only; carries no payload.
	OnDisconnect func()
}

// Session multiplexes named value, error and progress notifications over a
// single channel to the remote computation process. It owns one channel,
// one value store and one binding registry for its lifetime.
type Session struct {
	opts  Options
	log   *zap.Logger
	codec codec.Codec

	reg   *bindings.Registry
	store *values.Store

	// mu guards connection state; dispatchMu serializes inbound dispatch.
	// They are distinct so a binding callback may call SendInput (which
	// takes mu) while a dispatch is in flight.
	mu        sync.Mutex
	connected bool
	ch        *channel

	dispatchMu sync.Mutex
}

func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = zap.L()
	}
	c := opts.Codec
	if c == nil {
		c = codec.JSON()
	}
	return &Session{
		opts:  opts,
		log:   log,
		codec: c,
		reg:   bindings.NewRegistry(),
		store: values.NewStore(),
	}
}

// Connect opens the channel, carrying initial as the init payload. The
// Unconnected to Connected transition is one-way; a second call fails with
// ErrAlreadyConnected and mutates nothing.
func (s *Session) Connect(ctx context.Context, initial map[string]any) error {
	initFrame, err := protocol.EncodeOutbound(s.codec, protocol.Init(initial))
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.connected {
		s.mu.Unlock()
		return ErrAlreadyConnected
	}
	s.connected = true
	s.ch = newChannel(s.log, s.dispatchMessage, s.handleClose)
	ch := s.ch
	s.mu.Unlock()

	ch.open(ctx, s.opts.Dialer, s.opts.URL, initFrame)
	return nil
}

// SendInput serializes one batched update message and hands it to the
// channel, which buffers it while the connection is still being established.
func (s *Session) SendInput(vals map[string]any) error {
	s.mu.Lock()
	ch := s.ch
	s.mu.Unlock()
	if ch == nil {
		return ErrNotConnected
	}
	frame, err := protocol.EncodeOutbound(s.codec, protocol.Update(vals))
	if err != nil {
		return err
	}
	return ch.send(context.Background(), frame)
}

// Bind registers b under id and returns it for chaining.
func (s *Session) Bind(id string, b bindings.Binding) (bindings.Binding, error) {
	if err := s.reg.Register(id, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Values exposes the session's value store.
func (s *Session) Values() *values.Store { return s.store }

// Connected reports whether Connect has been called.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// Close terminates the channel. Terminal, like a transport-initiated close.
func (s *Session) Close() {
	s.mu.Lock()
	ch := s.ch
	s.mu.Unlock()
	if ch != nil {
		ch.close()
	}
}

// dispatchMessage processes one inbound frame. Processing is strictly
// ordered: errors first, then a progress-clear sweep over every registered
// binding, then the value batch, then progress markers. The whole dispatch
// runs under the dispatch lock, so no other dispatch interleaves; binding
// callbacks may freely call SendInput or Bind from inside it.
func (s *Session) dispatchMessage(frame []byte) {
	in, err := protocol.DecodeInbound(s.codec, frame)
	if err != nil {
		s.log.Warn("bad inbound frame", zap.Int("bytes", len(frame)), zap.Error(err))
		return
	}

	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	for name, ei := range in.Errors {
		s.store.SetError(name, ei.Message)
		b, ok := s.reg.Get(name)
		if !ok {
			continue
		}
		if er, ok := b.(bindings.ErrorReceiver); ok {
			er.OnValueError(ei)
		}
	}

	if len(in.Values) > 0 {
		// Any value batch clears progress on every output, not only the
		// ones about to change. Other layers depend on this sweep.
		s.reg.ForEach(func(_ string, b bindings.Binding) {
			if pr, ok := b.(bindings.ProgressReceiver); ok {
				pr.ShowProgress(false)
			}
		})
		for name, v := range in.Values {
			changed := s.store.SetValue(name, v)
			if !changed {
				continue
			}
			if b, ok := s.reg.Get(name); ok {
				b.OnValueChange(v)
			}
		}
	}

	for _, name := range in.Progress {
		if b, ok := s.reg.Get(name); ok {
			if pr, ok := b.(bindings.ProgressReceiver); ok {
				pr.ShowProgress(true)
			}
		}
	}
}

func (s *Session) handleClose() {
	s.log.Info("channel closed")
	if s.opts.OnDisconnect != nil {
		s.opts.OnDisconnect()
	}
}
