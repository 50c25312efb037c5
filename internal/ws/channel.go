// Package ws keeps the spectator connected to the game server.
package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/arena-spectator/pkg/types"
)

var ErrNoURL = errors.New("missing server url")

// Handler consumes the inbound stream. Calls are made from the channel's
// goroutine, one at a time, in arrival order.
type Handler interface {
	// SessionStarted is called once per successful connection, before the
	// first message of that connection.
	SessionStarted()
	// HandleMessage returns an error for messages it could not use; the
	// message is dropped and the stream continues.
	HandleMessage(ctx context.Context, env types.Envelope) error
}

type Options struct {
	URL         string
	Backoff     Backoff
	DialTimeout time.Duration
	ReadTimeout time.Duration // 0 waits forever
	ReadLimit   int64
	Logger      *zap.Logger
	OnStatus    StatusFunc
}

type Channel struct {
	opts Options
	log  *zap.Logger
}

func New(opts Options) (*Channel, error) {
	if opts.URL == "" {
		return nil, ErrNoURL
	}
	if opts.Backoff == nil {
		opts.Backoff = Fixed{Delay: DefaultRetryDelay}
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{opts: opts, log: log.With(zap.String("url", opts.URL))}, nil
}

// Run connects and keeps reconnecting until ctx is cancelled. Each
// disconnection, whether it came from a failed dial, a read error or a
// close frame, schedules exactly one retry.
func (c *Channel) Run(ctx context.Context, h Handler) error {
	attempt := 0
	for {
		c.setStatus(StatusConnecting, nil)
		connected, err := c.session(ctx, h)
		if ctx.Err() != nil {
			c.setStatus(StatusDisconnected, nil)
			return ctx.Err()
		}

		if isFailure(err) {
			c.setStatus(StatusError, err)
		}
		c.setStatus(StatusDisconnected, err)

		if connected {
			attempt = 0
		}
		delay := c.opts.Backoff.Next(attempt)
		attempt++
		c.log.Info("reconnecting", zap.Duration("delay", delay), zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

// session runs one connection to completion. connected reports whether the
// dial succeeded.
func (c *Channel) session(ctx context.Context, h Handler) (connected bool, err error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.opts.DialTimeout)
	conn, _, err := websocket.Dial(dialCtx, c.opts.URL, nil)
	cancel()
	if err != nil {
		return false, fmt.Errorf("dial: %w", err)
	}
	defer conn.CloseNow()

	if c.opts.ReadLimit > 0 {
		conn.SetReadLimit(c.opts.ReadLimit)
	}

	c.setStatus(StatusConnected, nil)
	h.SessionStarted()

	for {
		_, data, err := c.read(ctx, conn)
		if err != nil {
			return true, err
		}

		env, err := types.DecodeEnvelope(data)
		if err != nil {
			c.log.Warn("dropping malformed message", zap.Int("bytes", len(data)), zap.Error(err))
			continue
		}
		if err := h.HandleMessage(ctx, env); err != nil {
			c.log.Warn("dropping message", zap.String("event", env.E), zap.Error(err))
		}
	}
}

func (c *Channel) read(ctx context.Context, conn *websocket.Conn) (websocket.MessageType, []byte, error) {
	if c.opts.ReadTimeout <= 0 {
		return conn.Read(ctx)
	}
	readCtx, cancel := context.WithTimeout(ctx, c.opts.ReadTimeout)
	defer cancel()
	return conn.Read(readCtx)
}

func (c *Channel) setStatus(s Status, err error) {
	if s == StatusError {
		c.log.Warn("connection failed", zap.Error(err))
	} else {
		c.log.Debug("status", zap.String("status", string(s)))
	}
	if c.opts.OnStatus != nil {
		c.opts.OnStatus(s, err)
	}
}

// isFailure separates errors from a server that said goodbye politely.
func isFailure(err error) bool {
	if err == nil {
		return false
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return false
	}
	return true
}
