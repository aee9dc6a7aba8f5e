// Package client plays matches over the game server's websocket.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/serenity-bot/serenity/internal/config"
	"github.com/serenity-bot/serenity/internal/dispatcher"
	"github.com/serenity-bot/serenity/internal/parser"
)

const (
	maxReconnect   = 10
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// Dispatcher routes a decoded server message. A []byte result is sent back
// to the server as is.
type Dispatcher interface {
	Dispatch(e dispatcher.Event) (any, error)
}

// Client connects to the server, feeds every message through the
// dispatcher and writes the replies.
type Client struct {
	cfg        config.ClientConfig
	parser     *parser.Parser
	dispatcher Dispatcher
	logger     *slog.Logger
	dialer     *ws.Dialer
	backoff    time.Duration

	matches atomic.Int64
}

// New creates a client. A zero HandshakeTimeout uses the gorilla default.
func New(cfg config.ClientConfig, p *parser.Parser, d Dispatcher, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if p == nil {
		p = parser.NewParser(logger)
	}
	dialer := *ws.DefaultDialer
	if cfg.HandshakeTimeout > 0 {
		dialer.HandshakeTimeout = cfg.HandshakeTimeout
	}
	return &Client{
		cfg:        cfg,
		parser:     p,
		dispatcher: d,
		logger:     logger,
		dialer:     &dialer,
		backoff:    initialBackoff,
	}
}

// Matches returns how many end messages have been handled.
func (c *Client) Matches() int {
	return int(c.matches.Load())
}

// Run plays one session, or with KeepPlaying keeps reconnecting after each
// one until ctx is cancelled. Consecutive failed sessions back off
// exponentially and give up after maxReconnect attempts.
func (c *Client) Run(ctx context.Context) error {
	backoff := c.backoff
	failures := 0

	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if !c.cfg.KeepPlaying {
			return err
		}

		if err != nil {
			failures++
			c.logger.Warn("Session failed", "attempt", failures, "error", err)
			if failures >= maxReconnect {
				return fmt.Errorf("giving up after %d attempts: %w", failures, err)
			}
		} else {
			failures = 0
			backoff = c.backoff
		}

		c.logger.Info("Reconnecting to server", "backoff", backoff)
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}

		if err != nil {
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}

// session dials once and reads until the server closes the connection or,
// without KeepPlaying, until the match ends.
func (c *Client) session(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.ServerURL, nil)
	if err != nil {
		return fmt.Errorf("websocket dial failed: %w", err)
	}
	c.logger.Info("Connected to game server", "url", c.cfg.ServerURL)

	s := newConnection(conn, c.logger)
	defer s.close()
	stop := context.AfterFunc(ctx, func() { _ = s.close() })
	defer stop()

	go s.writeLoop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if s.isClosed() || ws.IsCloseError(err, ws.CloseNormalClosure, ws.CloseGoingAway) {
				c.logger.Info("Server closed the connection")
				return nil
			}
			return fmt.Errorf("websocket read: %w", err)
		}

		if ended := c.handle(s, data); ended && !c.cfg.KeepPlaying {
			return nil
		}
	}
}

// handle decodes and dispatches one message. It reports whether the message
// ended a match.
func (c *Client) handle(s *connection, data []byte) bool {
	typ, err := c.parser.MessageType(data)
	if err != nil {
		c.logger.Warn("Dropping unreadable message", "error", err)
		return false
	}
	payload, err := c.parser.Decode(data)
	if err != nil {
		c.logger.Warn("Dropping malformed message", "type", typ, "error", err)
		return false
	}

	result, err := c.dispatcher.Dispatch(dispatcher.Event{
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		c.logger.Debug("Handler failed", "type", typ, "error", err)
	}
	if reply, ok := result.([]byte); ok && len(reply) > 0 {
		s.send(reply)
	}

	if typ == parser.TypeEnd {
		c.matches.Add(1)
		return true
	}
	return false
}
