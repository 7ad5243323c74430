package trace

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	tracemetrics "answerwire/internal/trace/metrics"
)

// Sink is the append-only destination for trace events. Implementations:
// Kafka (production), memory (tests and local runs).
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Publisher accepts events without blocking and hands them to the worker
// through a bounded channel. Construct once per process.
type Publisher struct {
	inbox   chan Event
	logger  *slog.Logger
	metrics *tracemetrics.Metrics
	dropped atomic.Int64
}

// NewPublisher creates a publisher with the given queue capacity.
func NewPublisher(capacity int, logger *slog.Logger, m *tracemetrics.Metrics) *Publisher {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Publisher{
		inbox:   make(chan Event, capacity),
		logger:  logger,
		metrics: m,
	}
}

// Emit enqueues an event. It never blocks: when the queue is full the event
// is dropped and counted, because trace emission must not slow a live call.
func (p *Publisher) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case p.inbox <- event:
		if p.metrics != nil {
			p.metrics.IncrementEmitted(string(event.Kind))
		}
	default:
		n := p.dropped.Add(1)
		if p.metrics != nil {
			p.metrics.IncrementDropped()
		}
		if p.logger != nil && n%100 == 1 {
			p.logger.Warn("trace queue full, dropping events",
				"dropped_total", n,
				"kind", string(event.Kind),
			)
		}
	}
}

// Dropped returns the number of events dropped so far.
func (p *Publisher) Dropped() int64 { return p.dropped.Load() }

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event { return p.inbox }

// Worker drains the publisher's queue into a sink. Sink errors are logged
// and swallowed; a failing sink must never stop the drain loop.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

// NewWorker creates a worker over the publisher's inbox.
func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run consumes events until the context is cancelled. On cancellation it
// drains whatever is already queued before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case event := <-w.inbox:
			w.append(ctx, event)
		}
	}
}

func (w *Worker) drain() {
	// Bounded by queue capacity; use a background context because the run
	// context is already cancelled.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case event := <-w.inbox:
			w.append(ctx, event)
		default:
			return
		}
	}
}

func (w *Worker) append(ctx context.Context, event Event) {
	if err := w.sink.Append(ctx, event); err != nil && w.logger != nil {
		w.logger.Warn("trace sink append failed",
			"kind", string(event.Kind),
			"tenant_id", event.TenantID.String(),
			"error", err,
		)
	}
}
