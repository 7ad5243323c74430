package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"answerwire/internal/tenant/models"
	"answerwire/internal/tenant/store"
	id "answerwire/pkg/domain"
	"answerwire/pkg/platform/sentinel"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *store.InMemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
}

func newTestRecord(s *suite.Suite, name string) *models.Record {
	rec, err := models.NewRecord(id.TenantID(uuid.New()), name, time.Now())
	s.Require().NoError(err)
	return rec
}

func (s *MemoryStoreSuite) TestCreateAndFind() {
	rec := newTestRecord(&s.Suite, "Brightsmile Dental")
	rec.Settings["voice"] = map[string]any{"voice_id": "nova-2"}

	s.Require().NoError(s.store.Create(s.ctx, rec))

	found, err := s.store.FindByID(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(rec.ID, found.ID)
	s.Equal(rec.Name, found.Name)
	s.Equal(rec.Settings, found.Settings)
}

func (s *MemoryStoreSuite) TestCreateDuplicateConflicts() {
	rec := newTestRecord(&s.Suite, "Brightsmile Dental")
	s.Require().NoError(s.store.Create(s.ctx, rec))
	s.ErrorIs(s.store.Create(s.ctx, rec), sentinel.ErrConflict)
}

func (s *MemoryStoreSuite) TestFindUnknownTenant() {
	_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestUpdate() {
	rec := newTestRecord(&s.Suite, "Brightsmile Dental")
	s.Require().NoError(s.store.Create(s.ctx, rec))

	rec.Settings["booking"] = map[string]any{"enabled": true}
	rec.UpdatedAt = time.Now()
	s.Require().NoError(s.store.Update(s.ctx, rec))

	found, err := s.store.FindByID(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal(map[string]any{"enabled": true}, found.Settings["booking"])
}

func (s *MemoryStoreSuite) TestUpdateUnknownTenant() {
	rec := newTestRecord(&s.Suite, "Ghost Tenant")
	s.ErrorIs(s.store.Update(s.ctx, rec), sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestStoredRecordIsIsolatedFromCaller() {
	rec := newTestRecord(&s.Suite, "Brightsmile Dental")
	rec.Settings["greeting"] = map[string]any{"opening": "Hello"}
	s.Require().NoError(s.store.Create(s.ctx, rec))

	// Mutating the caller's copy after Create must not leak into the store.
	rec.Settings["greeting"].(map[string]any)["opening"] = "mutated"

	found, err := s.store.FindByID(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.Equal("Hello", found.Settings["greeting"].(map[string]any)["opening"])
}

func (s *MemoryStoreSuite) TestCount() {
	count, err := s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Zero(count)

	s.Require().NoError(s.store.Create(s.ctx, newTestRecord(&s.Suite, "One")))
	s.Require().NoError(s.store.Create(s.ctx, newTestRecord(&s.Suite, "Two")))

	count, err = s.store.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, count)
}
