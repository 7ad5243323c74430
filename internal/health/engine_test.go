package health_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"answerwire/internal/content"
	"answerwire/internal/health"
	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
)

type EngineSuite struct {
	suite.Suite
	ctx     context.Context
	catalog *content.InMemoryCatalog
	engine  *health.Engine
	record  *models.Record
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.ctx = context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := registry.Load()
	s.catalog = content.NewInMemory()
	s.catalog.Put(content.Template{RefID: "tmpl-hours", Active: true})
	s.catalog.Put(content.Template{RefID: "tmpl-retired", Active: false})

	s.engine = health.NewEngine(snap, registry.LoadConsumption(),
		resolve.New(snap, registry.LoadBridges()), s.catalog, logger)
	s.record = fullyConfiguredRecord(&s.Suite)
}

// fullyConfiguredRecord builds a tenant that should evaluate GREEN.
func fullyConfiguredRecord(s *suite.Suite) *models.Record {
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
			"opening": "Thanks for calling {{business_name}}!",
			"closing": "Have a great day!",
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
	return rec
}

func (s *EngineSuite) TestEveryFieldGetsExactlyOneStatus() {
	eval := s.engine.Evaluate(s.ctx, s.record)

	known := map[health.Status]bool{
		health.StatusWired: true, health.StatusPartial: true,
		health.StatusMisconfigured: true, health.StatusNotConfigured: true,
		health.StatusUIOnly: true, health.StatusDeadRead: true,
		health.StatusTenantRisk: true,
	}
	s.Len(eval.Fields, registry.Load().Len())
	for _, fh := range eval.Fields {
		s.True(known[fh.Status], "field %s has unknown status %q", fh.Path, fh.Status)
	}
}

func (s *EngineSuite) TestFullyConfiguredTenantIsGreen() {
	eval := s.engine.Evaluate(s.ctx, s.record)
	s.Equal(health.AggregateGreen, eval.Aggregate())
	s.Empty(eval.CriticalIssues())

	fh, ok := eval.Field(registry.PathGreetingOpening)
	s.Require().True(ok)
	s.Equal(health.StatusWired, fh.Status)
}

func (s *EngineSuite) TestMissingRequiredFieldIsRedWithFinding() {
	delete(s.record.Settings["compliance"].(map[string]any), "recording_disclosure")
	eval := s.engine.Evaluate(s.ctx, s.record)

	fh, ok := eval.Field(registry.PathComplianceRecordingDisclosure)
	s.Require().True(ok)
	s.Equal(health.StatusMisconfigured, fh.Status)
	s.Require().NotNil(fh.Finding)
	s.NotEmpty(fh.Finding.Reason)
	s.NotEmpty(fh.Finding.Fix)

	// Red health always names its reasons.
	s.Equal(health.AggregateRed, eval.Aggregate())
	s.NotEmpty(eval.CriticalIssues())
}

func (s *EngineSuite) TestValidatorFailureCarriesDescription() {
	s.record.Settings["booking"].(map[string]any)["transfer_number"] = "555-1234"
	eval := s.engine.Evaluate(s.ctx, s.record)

	fh, ok := eval.Field(registry.PathBookingTransferNumber)
	s.Require().True(ok)
	s.Equal(health.StatusMisconfigured, fh.Status)
	s.Require().NotNil(fh.Finding)
	s.NotEmpty(fh.Finding.Expected)
	s.NotEmpty(fh.Finding.Actual)
}

func (s *EngineSuite) TestOptionalAbsentFieldIsNotConfigured() {
	delete(s.record.Settings["escalation"].(map[string]any), "number")
	eval := s.engine.Evaluate(s.ctx, s.record)

	fh, ok := eval.Field(registry.PathEscalationNumber)
	s.Require().True(ok)
	s.Equal(health.StatusNotConfigured, fh.Status)
	s.Equal(health.AggregateGreen, eval.Aggregate())
}

func (s *EngineSuite) TestPersistedButUnreadIsUIOnly() {
	s.record.Settings["identity"].(map[string]any)["logo_url"] = "https://cdn.example.com/logo.png"
	eval := s.engine.Evaluate(s.ctx, s.record)

	fh, ok := eval.Field(registry.PathIdentityLogoURL)
	s.Require().True(ok)
	s.Equal(health.StatusUIOnly, fh.Status)
	s.Equal(health.AggregateYellow, eval.Aggregate())
}

func (s *EngineSuite) TestLegacyBridgeValueCountsAsPersisted() {
	delete(s.record.Settings["hours"].(map[string]any), "timezone")
	s.record.Legacy = map[string]any{"office": map[string]any{"tz": "America/Chicago"}}
	eval := s.engine.Evaluate(s.ctx, s.record)

	fh, ok := eval.Field(registry.PathHoursTimezone)
	s.Require().True(ok)
	s.Equal(health.StatusWired, fh.Status)
	s.Equal(string(resolve.SourceLegacyBridge), fh.Source)
}

func (s *EngineSuite) TestDerivedPoolStates() {
	s.Run("no links is not configured", func() {
		rec := fullyConfiguredRecord(&s.Suite)
		rec.ContentLinks = nil
		eval := s.engine.Evaluate(s.ctx, rec)
		fh, _ := eval.Field(registry.PathScenariosPool)
		s.Equal(health.StatusNotConfigured, fh.Status)
	})

	s.Run("links but zero active units is partial", func() {
		rec := fullyConfiguredRecord(&s.Suite)
		rec.ContentLinks = []models.ContentLink{{RefID: "tmpl-retired", Active: true}}
		eval := s.engine.Evaluate(s.ctx, rec)
		fh, _ := eval.Field(registry.PathScenariosPool)
		s.Equal(health.StatusPartial, fh.Status)
	})

	s.Run("at least one active unit is wired", func() {
		eval := s.engine.Evaluate(s.ctx, s.record)
		fh, _ := eval.Field(registry.PathScenariosPool)
		s.Equal(health.StatusWired, fh.Status)
	})
}

func (s *EngineSuite) TestDerivationFailureDegradesFieldOnly() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	snap := registry.Load()
	engine := health.NewEngine(snap, registry.LoadConsumption(),
		resolve.New(snap, registry.LoadBridges()), failingCatalog{}, logger)

	eval := engine.Evaluate(s.ctx, s.record)
	fh, ok := eval.Field(registry.PathScenariosPool)
	s.Require().True(ok)
	s.Equal(health.StatusPartial, fh.Status)
	s.NotEmpty(fh.Error)

	// The rest of the evaluation is unaffected.
	opening, _ := eval.Field(registry.PathGreetingOpening)
	s.Equal(health.StatusWired, opening.Status)
}

func (s *EngineSuite) TestRiskOverlayOutranksWiring() {
	eval := s.engine.Evaluate(s.ctx, s.record)
	eval.ApplyRiskOverlay([]string{registry.PathGreetingOpening})

	fh, _ := eval.Field(registry.PathGreetingOpening)
	s.Equal(health.StatusTenantRisk, fh.Status)
	s.Equal(health.AggregateRed, eval.Aggregate())
	s.NotEmpty(eval.CriticalIssues())
}

func (s *EngineSuite) TestKnownDriftAppearsInDiff() {
	diff := s.engine.Diff(s.record)
	s.Equal([]string{"speech.noiseSuppression"}, diff.RuntimeReadsNotInRegistry)
	s.Contains(diff.RegistryPathsNotConsumed, registry.PathIdentityLogoURL)
	s.Contains(diff.RegistryPathsNotConsumed, registry.PathVoiceBargeIn)
}

func (s *EngineSuite) TestDeadReadsAreTenantIndependent() {
	blank, err := models.NewRecord(id.TenantID(uuid.New()), "Blank", time.Now())
	s.Require().NoError(err)

	for _, rec := range []*models.Record{s.record, blank} {
		eval := s.engine.Evaluate(s.ctx, rec)
		s.Require().Len(eval.DeadReads, 1)
		s.Equal("speech.noiseSuppression", eval.DeadReads[0].Path)
		s.Equal(health.StatusDeadRead, eval.DeadReads[0].Status)
	}
}

type failingCatalog struct{}

func (failingCatalog) FetchByRefs(context.Context, []string) ([]content.Template, error) {
	return nil, errors.New("catalog unreachable")
}

func (failingCatalog) CountActive(context.Context, []string) (int, error) {
	return 0, errors.New("catalog unreachable")
}
