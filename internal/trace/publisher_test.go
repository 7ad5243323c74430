package trace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "answerwire/pkg/domain"
)

type PublisherSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestPublisherSuite(t *testing.T) {
	suite.Run(t, new(PublisherSuite))
}

func (s *PublisherSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *PublisherSuite) event(kind Kind) Event {
	return Event{
		Kind:       kind,
		TenantID:   id.TenantID(uuid.New()),
		TraceRunID: id.NewTraceRunID(),
	}
}

func (s *PublisherSuite) TestEmitNeverBlocksWhenQueueFull() {
	pub := NewPublisher(2, s.logger, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			pub.Emit(s.event(KindConfigRead))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.FailNow("Emit blocked on a full queue")
	}
	s.Equal(int64(8), pub.Dropped())
}

func (s *PublisherSuite) TestEmitStampsTimestamp() {
	pub := NewPublisher(4, s.logger, nil)
	pub.Emit(s.event(KindConfigRead))

	e := <-pub.Inbox()
	s.False(e.Timestamp.IsZero())
}

func (s *PublisherSuite) TestWorkerDrainsToSink() {
	pub := NewPublisher(16, s.logger, nil)
	sink := NewInMemory()
	worker := NewWorker(sink, pub.Inbox(), s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- worker.Run(ctx) }()

	for i := 0; i < 5; i++ {
		pub.Emit(s.event(KindConfigRead))
	}
	s.Eventually(func() bool { return sink.Len() == 5 }, time.Second, 5*time.Millisecond)

	cancel()
	s.Require().ErrorIs(<-finished, context.Canceled)
}

func (s *PublisherSuite) TestWorkerDrainsQueueOnShutdown() {
	pub := NewPublisher(16, s.logger, nil)
	sink := NewInMemory()
	worker := NewWorker(sink, pub.Inbox(), s.logger)

	// Enqueue before the worker starts, then cancel immediately: everything
	// already queued must still reach the sink.
	for i := 0; i < 7; i++ {
		pub.Emit(s.event(KindViolation))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = worker.Run(ctx)

	s.Equal(7, sink.Len())
	s.Len(sink.ByKind(KindViolation), 7)
}

type failingSink struct {
	calls atomic.Int32
}

func (f *failingSink) Append(context.Context, Event) error {
	f.calls.Add(1)
	return errors.New("sink outage")
}

func (s *PublisherSuite) TestSinkFailuresNeverStopTheWorker() {
	pub := NewPublisher(16, s.logger, nil)
	sink := &failingSink{}
	worker := NewWorker(sink, pub.Inbox(), s.logger)

	ctx, cancel := context.WithCancel(context.Background())
	finished := make(chan error, 1)
	go func() { finished <- worker.Run(ctx) }()

	for i := 0; i < 3; i++ {
		pub.Emit(s.event(KindConfigRead))
	}
	s.Eventually(func() bool { return sink.calls.Load() == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	<-finished
}

func (s *PublisherSuite) TestInMemoryFilters() {
	sink := NewInMemory()
	tenantA := id.TenantID(uuid.New())
	tenantB := id.TenantID(uuid.New())

	_ = sink.Append(context.Background(), Event{Kind: KindConfigRead, TenantID: tenantA})
	_ = sink.Append(context.Background(), Event{Kind: KindLegacyPathUsed, TenantID: tenantA})
	_ = sink.Append(context.Background(), Event{Kind: KindConfigRead, TenantID: tenantB})

	s.Len(sink.ByTenant(tenantA), 2)
	s.Len(sink.ByKind(KindConfigRead), 2)
	s.Len(sink.ByKind(KindCallSummary), 0)
}
