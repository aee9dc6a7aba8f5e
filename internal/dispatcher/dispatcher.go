package dispatcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Event is one message routed by Type: a decoded server message ("start",
// "events", ...) or an internal notification such as "round.recorded".
type Event struct {
	Type      string
	Payload   any
	Timestamp time.Time
}

// HandlerFunc handles one event.
type HandlerFunc func(Event) (any, error)

// Logger is what the Logged option writes to.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Option tunes a single registration.
type Option func(*options)

type options struct {
	queue    int
	blocking bool
	logged   bool
}

// Buffered hands events to a worker goroutine through a queue of size n.
func Buffered(n int) Option {
	return func(o *options) { o.queue = n }
}

// Blocking makes a full queue wait for room. Without it the event is dropped.
func Blocking() Option {
	return func(o *options) { o.blocking = true }
}

// Logged writes a debug line per event and an error line per failure.
func Logged() Option {
	return func(o *options) { o.logged = true }
}

// Dispatcher maps event types to handlers.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	logger   Logger

	processed metric.Int64Counter
	failed    metric.Int64Counter
	dropped   metric.Int64Counter

	mu      sync.Mutex
	queues  map[string]chan Event
	workers sync.WaitGroup
}

// New builds a dispatcher. Counters go to the global OTel meter provider,
// which discards them unless one is installed.
func New(logger Logger) (*Dispatcher, error) {
	d := &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		queues:   make(map[string]chan Event),
		logger:   logger,
	}

	m := meter()
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&d.processed, "dispatcher.events.processed", "Events handled without error"},
		{&d.failed, "dispatcher.events.failed", "Events whose handler returned an error"},
		{&d.dropped, "dispatcher.events.dropped", "Events dropped on a full queue"},
	}
	for _, c := range counters {
		var err error
		if *c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("counter %s: %w", c.name, err)
		}
	}
	return d, nil
}

// Register installs h for typ, replacing any earlier handler.
func (d *Dispatcher) Register(typ string, h HandlerFunc, opts ...Option) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	h = d.counted(typ, h)
	if o.logged {
		h = d.logged(typ, h)
	}
	if o.queue > 0 {
		h = d.queued(typ, o.queue, o.blocking, h)
	}
	d.handlers[typ] = h
}

// Dispatch runs the handler for e.Type. A zero Timestamp is set to now.
func (d *Dispatcher) Dispatch(e Event) (any, error) {
	h, ok := d.handlers[e.Type]
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", e.Type)
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	return h(e)
}

// HasHandler reports whether typ is registered.
func (d *Dispatcher) HasHandler(typ string) bool {
	_, ok := d.handlers[typ]
	return ok
}

// Close closes every queue and waits for the workers to drain them.
// Dispatching to a queued handler after Close panics.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	for typ, q := range d.queues {
		close(q)
		delete(d.queues, typ)
	}
	d.mu.Unlock()
	d.workers.Wait()
}

func (d *Dispatcher) counted(typ string, h HandlerFunc) HandlerFunc {
	attrs := metric.WithAttributes(attribute.String("type", typ))
	return func(e Event) (any, error) {
		res, err := h(e)
		if err != nil {
			d.failed.Add(context.Background(), 1, attrs)
		} else {
			d.processed.Add(context.Background(), 1, attrs)
		}
		return res, err
	}
}

func (d *Dispatcher) queued(typ string, size int, blocking bool, h HandlerFunc) HandlerFunc {
	q := make(chan Event, size)
	d.mu.Lock()
	d.queues[typ] = q
	d.mu.Unlock()

	d.workers.Add(1)
	go func() {
		defer d.workers.Done()
		for e := range q {
			_, _ = h(e)
		}
	}()

	if blocking {
		return func(e Event) (any, error) {
			q <- e
			return "queued", nil
		}
	}
	attrs := metric.WithAttributes(attribute.String("type", typ))
	return func(e Event) (any, error) {
		select {
		case q <- e:
			return "queued", nil
		default:
			d.dropped.Add(context.Background(), 1, attrs)
			return nil, fmt.Errorf("queue full: %s", typ)
		}
	}
}

func (d *Dispatcher) logged(typ string, h HandlerFunc) HandlerFunc {
	return func(e Event) (any, error) {
		start := time.Now()
		d.logger.Debug("dispatch", "type", typ)
		res, err := h(e)
		if err != nil {
			d.logger.Error("handler failed", "type", typ, "took", time.Since(start), "error", err)
			return res, err
		}
		d.logger.Debug("handled", "type", typ, "took", time.Since(start))
		return res, nil
	}
}
