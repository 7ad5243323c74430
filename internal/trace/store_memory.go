package trace

import (
	"context"
	"sync"

	id "answerwire/pkg/domain"
)

// InMemory is a Sink for tests and local runs. Append-only.
type InMemory struct {
	mu     sync.Mutex
	events []Event
}

// NewInMemory creates an empty in-memory sink.
func NewInMemory() *InMemory {
	return &InMemory{}
}

// Append stores the event.
func (s *InMemory) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// Events returns a copy of everything appended so far.
func (s *InMemory) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// ByKind returns appended events of one kind, in order.
func (s *InMemory) ByKind(kind Kind) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// ByTenant returns appended events for one tenant, in order.
func (s *InMemory) ByTenant(tenantID id.TenantID) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, e := range s.events {
		if e.TenantID == tenantID {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of appended events.
func (s *InMemory) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}
