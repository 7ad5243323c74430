package enforcement

import (
	"context"
	"sync"

	id "answerwire/pkg/domain"
)

// InMemory is an OverrideStore for tests and single-node runs.
type InMemory struct {
	mu    sync.RWMutex
	modes map[id.TenantID]Mode
}

// NewInMemory creates an empty in-memory override store.
func NewInMemory() *InMemory {
	return &InMemory{modes: make(map[id.TenantID]Mode)}
}

func (s *InMemory) TenantMode(_ context.Context, tenantID id.TenantID) (Mode, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mode, ok := s.modes[tenantID]
	return mode, ok, nil
}

func (s *InMemory) SetTenantMode(_ context.Context, tenantID id.TenantID, mode Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modes[tenantID] = mode
	return nil
}

func (s *InMemory) ClearTenantMode(_ context.Context, tenantID id.TenantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.modes, tenantID)
	return nil
}
