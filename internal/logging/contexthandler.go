package logging

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// ContextProvider returns attributes to attach to every record.
type ContextProvider func() []slog.Attr

// ContextHandler wraps another handler and injects dynamic context attributes.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
}

// NewContextHandler creates a handler that adds dynamic context to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{
		inner:    inner,
		provider: provider,
	}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider != nil {
		r.AddAttrs(h.provider()...)
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{
		inner:    h.inner.WithAttrs(attrs),
		provider: h.provider,
	}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		inner:    h.inner.WithGroup(name),
		provider: h.provider,
	}
}

// MatchContext tracks the match and round currently being played so log
// records can be tagged with them. It is updated from the session handlers
// and read from whatever goroutine logs.
type MatchContext struct {
	match atomic.Value
	round atomic.Int64
}

// NewMatchContext returns a context with no match and round -1.
func NewMatchContext() *MatchContext {
	c := &MatchContext{}
	c.match.Store("")
	c.round.Store(-1)
	return c
}

func (c *MatchContext) SetMatch(id string) {
	c.match.Store(id)
	c.round.Store(-1)
}

func (c *MatchContext) SetRound(round int) {
	c.round.Store(int64(round))
}

// Attrs is a ContextProvider. Nothing is added outside a match.
func (c *MatchContext) Attrs() []slog.Attr {
	id, _ := c.match.Load().(string)
	if id == "" {
		return nil
	}
	attrs := []slog.Attr{slog.String("match", id)}
	if r := c.round.Load(); r >= 0 {
		attrs = append(attrs, slog.Int64("round", r))
	}
	return attrs
}
