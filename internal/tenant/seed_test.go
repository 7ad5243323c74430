package tenant_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant"
	"answerwire/internal/tenant/models"
	"answerwire/internal/tenant/store"
	id "answerwire/pkg/domain"
)

type SeederSuite struct {
	suite.Suite
	ctx    context.Context
	store  *store.InMemoryStore
	seeder *tenant.Seeder
	record *models.Record
}

func TestSeederSuite(t *testing.T) {
	suite.Run(t, new(SeederSuite))
}

func (s *SeederSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.seeder = tenant.NewSeeder(registry.Load(), s.store, logger)

	rec, err := models.NewRecord(id.TenantID(uuid.New()), "Brightsmile Dental", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, rec))
	s.record = rec
}

func (s *SeederSuite) TestSeedsAbsentDefaultsOnly() {
	result, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)
	s.True(result.Updated)
	s.Contains(result.AppliedPaths, registry.PathVoiceSpeakingRate)
	s.Contains(result.AppliedPaths, registry.PathBookingMaxAdvanceDays)
	// Fields without a registry default are never invented.
	s.NotContains(result.AppliedPaths, registry.PathVoiceVoiceID)

	v, found := resolve.Walk(s.record.Settings, "voice.speaking_rate")
	s.True(found)
	s.Equal(1.0, v)
}

func (s *SeederSuite) TestNeverOverwritesPresentValues() {
	s.record.Settings["voice"] = map[string]any{"speaking_rate": 1.3}

	result, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)
	s.NotContains(result.AppliedPaths, registry.PathVoiceSpeakingRate)

	v, _ := resolve.Walk(s.record.Settings, "voice.speaking_rate")
	s.Equal(1.3, v)
}

func (s *SeederSuite) TestPresentButEmptyIsLeftAlone() {
	// An explicitly emptied phrase is a deliberate state, not a missing one.
	s.record.Settings["greeting"] = map[string]any{"closing": ""}

	result, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)
	s.NotContains(result.AppliedPaths, registry.PathGreetingClosing)

	v, found := resolve.Walk(s.record.Settings, "greeting.closing")
	s.True(found)
	s.Equal("", v)
}

func (s *SeederSuite) TestIdempotent() {
	first, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)
	s.True(first.Updated)

	second, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)
	s.False(second.Updated)
	s.Empty(second.AppliedPaths)
}

func (s *SeederSuite) TestPersistsSeededRecord() {
	_, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)

	stored, err := s.store.FindByID(s.ctx, s.record.ID)
	s.Require().NoError(err)
	v, found := resolve.Walk(stored.Settings, "booking.max_advance_days")
	s.True(found)
	s.Equal(30, v)
}

func (s *SeederSuite) TestShapeMismatchIsSkipped() {
	// A scalar where the registry expects a sub-document: the seeder must
	// not clobber it.
	s.record.Settings["booking"] = "legacy-string"

	result, err := s.seeder.SeedMissingBaseFields(s.ctx, s.record)
	s.Require().NoError(err)
	s.NotContains(result.AppliedPaths, registry.PathBookingMaxAdvanceDays)
	s.Equal("legacy-string", s.record.Settings["booking"])
}
