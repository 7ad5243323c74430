package report_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"answerwire/internal/content"
	"answerwire/internal/diagnose"
	"answerwire/internal/health"
	"answerwire/internal/registry"
	"answerwire/internal/report"
	"answerwire/internal/report/mocks"
	"answerwire/internal/resolve"
	"answerwire/internal/safety"
	"answerwire/internal/tenant"
	"answerwire/internal/tenant/models"
	tenantstore "answerwire/internal/tenant/store"
	"answerwire/internal/tier"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
)

type ReportServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *tenantstore.InMemoryStore
	catalog *content.InMemoryCatalog
	service *report.Service
}

func TestReportServiceSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceSuite))
}

func (s *ReportServiceSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := registry.Load()
	resolver := resolve.New(snap, registry.LoadBridges())

	s.store = tenantstore.NewInMemory()
	s.catalog = content.NewInMemory()
	s.catalog.Put(content.Template{RefID: "tmpl-hours", Active: true})

	engine := health.NewEngine(snap, registry.LoadConsumption(), resolver, s.catalog, logger)
	auditor := safety.New(snap, logger)
	gate := tier.NewGate(tier.Load(), resolver)
	seeder := tenant.NewSeeder(snap, s.store, logger)

	var err error
	s.service, err = report.New(s.store, seeder, engine, auditor, gate, resolver, snap,
		report.WithLogger(logger),
		report.WithEnvironment("test"),
	)
	s.Require().NoError(err)
}

// seedRecord stores a fully configured tenant and returns it.
func (s *ReportServiceSuite) seedRecord() *models.Record {
	rec, err := models.NewRecord(id.TenantID(uuid.New()), "Brightsmile Dental", time.Now())
	s.Require().NoError(err)
	rec.Category = "dental"
	rec.Settings = map[string]any{
		"identity": map[string]any{
			"display_name": "Brightsmile Dental",
			"category":     "dental",
			"locale":       "en-US",
		},
		"greeting": map[string]any{
			"opening":     "Thanks for calling {{business_name}}!",
			"after_hours": "We're closed right now, but we open at 8am.",
			"closing":     "Have a great day!",
		},
		"voice": map[string]any{
			"voice_id":      "nova-2",
			"speaking_rate": 1.1,
		},
		"booking": map[string]any{
			"enabled":             true,
			"calendar_ref":        "cal-4821",
			"transfer_number":     "+15551234567",
			"confirmation_phrase": "You're booked for {{date}} at {{time}}.",
			"max_advance_days":    float64(30),
		},
		"scenarios": map[string]any{
			"fallback_mode": "llm",
			"max_per_turn":  float64(3),
		},
		"compliance": map[string]any{
			"kill_switch":          false,
			"booking_kill_switch":  false,
			"recording_disclosure": "This call may be recorded.",
		},
		"hours": map[string]any{
			"timezone": "America/Chicago",
			"weekly":   map[string]any{"mon": []any{"08:00-17:00"}},
		},
		"escalation": map[string]any{
			"number":            "+15559876543",
			"voicemail_enabled": true,
		},
	}
	rec.ContentLinks = []models.ContentLink{{RefID: "tmpl-hours", Active: true}}
	s.Require().NoError(s.store.Create(s.ctx, rec))
	return rec
}

func (s *ReportServiceSuite) TestNew() {
	s.Run("nil tenant store returns error", func() {
		_, err := report.New(nil, nil, nil, nil, nil, nil, nil)
		s.Error(err)
		s.Contains(err.Error(), "tenant store is required")
	})
}

func (s *ReportServiceSuite) TestGenerateFullyConfiguredTenant() {
	rec := s.seedRecord()

	result, err := s.service.Generate(s.ctx, rec.ID)
	s.Require().NoError(err)

	s.Equal(rec.ID, result.Meta.TenantID)
	s.Equal("Brightsmile Dental", result.Meta.TenantName)
	s.Equal("test", result.Meta.Environment)
	s.Equal(registry.Load().Version(), result.Meta.RegistryVersion)

	s.Equal(health.AggregateGreen, result.Scoreboard.Aggregate)
	s.InDelta(100.0, result.Scoreboard.GoldenScore, 0.01)
	s.Equal(safety.VerdictSafe, result.Scoreboard.SafetyVerdict)
	s.Empty(result.Scoreboard.CriticalIssues)

	s.Len(result.Fields, registry.Load().Len())
	s.NotEmpty(result.UIMap)
	s.NotEmpty(result.RuntimeMap)
	s.NotEmpty(result.DataMap)
	s.NotEmpty(result.EffectiveConfig)
	s.NotEmpty(result.Diagrams.Wiring)
	s.NotEmpty(result.Diagrams.Resolution)

	// All three tiers satisfied for the full record.
	s.Require().Len(result.Tiers.Tiers, 3)
	for _, t := range result.Tiers.Tiers {
		s.True(t.Complete, "tier %s incomplete", t.Name)
	}
}

func (s *ReportServiceSuite) TestEngagedKillSwitchMarkedBlocking() {
	rec := s.seedRecord()
	rec.Settings["compliance"].(map[string]any)["kill_switch"] = true
	s.Require().NoError(s.store.Update(s.ctx, rec))

	result, err := s.service.Generate(s.ctx, rec.ID)
	s.Require().NoError(err)

	byPath := make(map[string]report.EffectiveValue, len(result.EffectiveConfig))
	for _, ev := range result.EffectiveConfig {
		byPath[ev.Path] = ev
	}

	engaged, ok := byPath[registry.PathComplianceAssistantKillSwitch]
	s.Require().True(ok)
	s.True(engaged.IsBlocking)
	s.Equal("assistant answers no calls while engaged", engaged.BlockingEffect)

	// A disengaged switch carries no marker.
	idle, ok := byPath[registry.PathComplianceBookingKillSwitch]
	s.Require().True(ok)
	s.False(idle.IsBlocking)
	s.Empty(idle.BlockingEffect)
}

func (s *ReportServiceSuite) TestGenerateSeedsBeforeEvaluating() {
	rec, err := models.NewRecord(id.TenantID(uuid.New()), "Fresh Signup", time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, rec))

	result, err := s.service.Generate(s.ctx, rec.ID)
	s.Require().NoError(err)

	s.True(result.Seed.Updated)
	s.Contains(result.Seed.AppliedPaths, registry.PathVoiceSpeakingRate)

	// The seed persisted: a second run applies nothing.
	again, err := s.service.Generate(s.ctx, rec.ID)
	s.Require().NoError(err)
	s.False(again.Seed.Updated)
}

func (s *ReportServiceSuite) TestGenerateUnknownTenant() {
	_, err := s.service.Generate(s.ctx, id.TenantID(uuid.New()))
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ReportServiceSuite) TestGenerateNilTenantID() {
	_, err := s.service.Generate(s.ctx, id.TenantID{})
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ReportServiceSuite) TestSafetyFailureFlipsFieldsToTenantRisk() {
	rec := s.seedRecord()
	// Embed a shared-content ref in tenant prose; the pattern check fails
	// and implicates the greeting paths.
	rec.Settings["greeting"].(map[string]any)["opening"] = "As tmpl-dental-greeting says, welcome!"
	s.Require().NoError(s.store.Update(s.ctx, rec))

	result, err := s.service.Generate(s.ctx, rec.ID)
	s.Require().NoError(err)

	s.Equal(safety.VerdictUnsafe, result.Scoreboard.SafetyVerdict)
	s.Equal(health.AggregateRed, result.Scoreboard.Aggregate)

	var flagged bool
	for _, fh := range result.Fields {
		if fh.Path == registry.PathGreetingOpening {
			s.Equal(health.StatusTenantRisk, fh.Status)
			flagged = true
		}
	}
	s.True(flagged)
}

func (s *ReportServiceSuite) TestGenerateStoreFailure() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := registry.Load()
	resolver := resolve.New(snap, registry.LoadBridges())
	engine := health.NewEngine(snap, registry.LoadConsumption(), resolver, s.catalog, logger)

	store := mocks.NewMockTenantStore(ctrl)
	seeder := mocks.NewMockSeeder(ctrl)
	store.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	svc, err := report.New(store, seeder, engine, safety.New(snap, logger), tier.NewGate(tier.Load(), resolver), resolver, snap)
	s.Require().NoError(err)

	_, err = svc.Generate(s.ctx, id.TenantID(uuid.New()))
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ReportServiceSuite) TestGenerateSeedFailure() {
	ctrl := gomock.NewController(s.T())
	defer ctrl.Finish()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := registry.Load()
	resolver := resolve.New(snap, registry.LoadBridges())
	engine := health.NewEngine(snap, registry.LoadConsumption(), resolver, s.catalog, logger)

	rec, err := models.NewRecord(id.TenantID(uuid.New()), "Seed Fail", time.Now())
	s.Require().NoError(err)

	store := mocks.NewMockTenantStore(ctrl)
	seeder := mocks.NewMockSeeder(ctrl)
	store.EXPECT().FindByID(gomock.Any(), rec.ID).Return(rec, nil)
	seeder.EXPECT().SeedMissingBaseFields(gomock.Any(), rec).Return(tenant.SeedResult{}, errors.New("update failed"))

	svc, err := report.New(store, seeder, engine, safety.New(snap, logger), tier.NewGate(tier.Load(), resolver), resolver, snap)
	s.Require().NoError(err)

	_, err = svc.Generate(s.ctx, rec.ID)
	s.Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ReportServiceSuite) TestDiagnose() {
	rec := s.seedRecord()

	s.Run("unknown tenant is not found", func() {
		_, err := s.service.Diagnose(s.ctx, id.TenantID(uuid.New()), diagnose.Evidence{})
		s.Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("evidence matches rule table", func() {
		result, err := s.service.Diagnose(s.ctx, rec.ID, diagnose.Evidence{
			ResponseSource: "llm",
			ScenarioCount:  0,
			TotalReads:     12,
		})
		s.Require().NoError(err)
		s.False(result.Healthy)
		s.Require().Len(result.Issues, 1)
		s.Equal("empty-pool-fallback", result.Issues[0].ID)
		s.Equal(rec.ID, result.Evidence.TenantID)
	})
}

func (s *ReportServiceSuite) TestMarkdownRendering() {
	rec := s.seedRecord()
	delete(rec.Settings["compliance"].(map[string]any), "recording_disclosure")
	s.Require().NoError(s.store.Update(s.ctx, rec))

	result, err := s.service.Generate(s.ctx, rec.ID)
	s.Require().NoError(err)

	md := report.Markdown(result)
	s.Contains(md, "# Wiring Report: Brightsmile Dental")
	s.Contains(md, "## Scoreboard")
	s.Contains(md, "RED")
	s.Contains(md, "### Critical issues")
	s.Contains(md, "`compliance.recordingDisclosure`")
	s.Contains(md, "## Remediation queue")
	s.Contains(md, "```mermaid")
	s.Contains(md, "flowchart LR")
}
