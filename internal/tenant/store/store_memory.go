package store

import (
	"context"
	"sync"

	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
	"answerwire/pkg/platform/sentinel"
)

// InMemoryStore keeps tenant records in process memory. Used in tests and
// single-node development runs.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.TenantID]*models.Record
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.TenantID]*models.Record),
	}
}

func (s *InMemoryStore) Create(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; exists {
		return sentinel.ErrConflict
	}
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, tenantID id.TenantID) (*models.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, exists := s.records[tenantID]
	if !exists {
		return nil, sentinel.ErrNotFound
	}
	return record.Clone(), nil
}

func (s *InMemoryStore) Update(_ context.Context, record *models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.ID]; !exists {
		return sentinel.ErrNotFound
	}
	s.records[record.ID] = record.Clone()
	return nil
}

func (s *InMemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
