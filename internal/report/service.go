package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"answerwire/internal/diagnose"
	"answerwire/internal/health"
	reportmetrics "answerwire/internal/report/metrics"
	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/safety"
	"answerwire/internal/tenant"
	"answerwire/internal/tenant/models"
	"answerwire/internal/tier"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
	"answerwire/pkg/platform/sentinel"
	"answerwire/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks TenantStore,Seeder

// TenantStore is the record lookup the report service needs.
type TenantStore interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Record, error)
}

// Seeder backfills registry defaults before evaluation.
type Seeder interface {
	SeedMissingBaseFields(ctx context.Context, record *models.Record) (tenant.SeedResult, error)
}

var tracer = otel.Tracer("answerwire.report")

// Service generates the composite wiring report. The seed step runs first so
// the report always evaluates a record with its base defaults in place.
type Service struct {
	tenants  TenantStore
	seeder   Seeder
	engine   *health.Engine
	auditor  *safety.Auditor
	gate     *tier.Gate
	resolver *resolve.Resolver
	registry *registry.Snapshot

	weights     health.ScoreWeights
	environment string
	logger      *slog.Logger
	metrics     *reportmetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *reportmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithScoreWeights(w health.ScoreWeights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

func WithEnvironment(env string) Option {
	return func(s *Service) {
		s.environment = env
	}
}

func New(
	tenants TenantStore,
	seeder Seeder,
	engine *health.Engine,
	auditor *safety.Auditor,
	gate *tier.Gate,
	resolver *resolve.Resolver,
	snap *registry.Snapshot,
	opts ...Option,
) (*Service, error) {
	if tenants == nil {
		return nil, fmt.Errorf("tenant store is required")
	}
	if seeder == nil {
		return nil, fmt.Errorf("seeder is required")
	}
	if engine == nil {
		return nil, fmt.Errorf("health engine is required")
	}
	if auditor == nil {
		return nil, fmt.Errorf("safety auditor is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("tier gate is required")
	}
	if resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if snap == nil {
		return nil, fmt.Errorf("registry snapshot is required")
	}

	svc := &Service{
		tenants:  tenants,
		seeder:   seeder,
		engine:   engine,
		auditor:  auditor,
		gate:     gate,
		resolver: resolver,
		registry: snap,
		weights:  health.DefaultScoreWeights(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Generate produces the full wiring report for one tenant.
//
// Pipeline: load, seed missing base fields, then evaluate health and safety
// concurrently against a cloned snapshot, overlay isolation risk onto the
// health classification, and gate the tiers against the overlaid result.
func (s *Service) Generate(ctx context.Context, tenantID id.TenantID) (*Report, error) {
	ctx, span := tracer.Start(ctx, "report.generate",
		trace.WithAttributes(attribute.String("tenant_id", tenantID.String())))
	defer span.End()

	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	start := time.Now()

	record, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant record")
	}

	seedResult, err := s.seeder.SeedMissingBaseFields(ctx, record)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed base fields")
	}

	// Evaluate a clone so a concurrent writer cannot shift the record under
	// the evaluation.
	snapshot := record.Clone()

	var (
		eval    *health.Evaluation
		proof   safety.Proof
		dataMap []health.DataEntry
		diff    health.DiffReport
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		eval = s.engine.Evaluate(gctx, snapshot)
		return nil
	})
	g.Go(func() error {
		proof = s.auditor.Audit(tenantID, snapshot)
		return nil
	})
	g.Go(func() error {
		dataMap = s.engine.DataMap(snapshot)
		diff = s.engine.Diff(snapshot)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "report evaluation failed")
	}

	// Risk overlay must land before the tier gate and the scoreboard so
	// both see TENANT_RISK, not the underlying wiring status.
	eval.ApplyRiskOverlay(proof.RiskPaths())
	tiers := s.gate.Evaluate(eval, snapshot)

	aggregate := eval.Aggregate()
	elapsed := time.Since(start)

	report := &Report{
		Meta: Meta{
			TenantID:        tenantID,
			TenantName:      record.Name,
			Category:        record.Category,
			Environment:     s.environment,
			RegistryVersion: s.registry.Version(),
			GeneratedAt:     requestcontext.Now(ctx),
			RequestID:       requestcontext.RequestID(ctx),
			Duration:        elapsed.String(),
		},
		Scoreboard: Scoreboard{
			Aggregate:      aggregate,
			GoldenScore:    eval.Score(s.weights),
			CountByStatus:  eval.CountByStatus(),
			CriticalIssues: eval.CriticalIssues(),
			SafetyVerdict:  proof.Verdict,
		},
		Seed:            seedResult,
		Fields:          eval.Fields,
		DeadReads:       eval.DeadReads,
		UIMap:           s.engine.UIMap(),
		DataMap:         dataMap,
		RuntimeMap:      s.engine.RuntimeMap(),
		EffectiveConfig: s.effectiveConfig(snapshot),
		Diff:            diff,
		SafetyProof:     proof,
		Tiers:           tiers,
		Diagrams: Diagrams{
			Wiring:     wiringDiagram(eval),
			Resolution: resolutionDiagram(),
		},
	}

	span.SetAttributes(
		attribute.String("aggregate", string(aggregate)),
		attribute.Float64("golden_score", report.Scoreboard.GoldenScore),
	)
	if s.metrics != nil {
		s.metrics.ObserveReport(string(aggregate), elapsed)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "wiring report generated",
			"tenant_id", tenantID.String(),
			"aggregate", aggregate,
			"golden_score", report.Scoreboard.GoldenScore,
			"safety_verdict", proof.Verdict,
			"seeded_paths", len(seedResult.AppliedPaths),
			"duration_ms", elapsed.Milliseconds(),
		)
	}
	return report, nil
}

// Diagnose matches one run's evidence against the rule table. The tenant
// must exist; the evidence itself comes from the caller's trace pipeline.
func (s *Service) Diagnose(ctx context.Context, tenantID id.TenantID, evidence diagnose.Evidence) (diagnose.Result, error) {
	ctx, span := tracer.Start(ctx, "report.diagnose",
		trace.WithAttributes(attribute.String("tenant_id", tenantID.String())))
	defer span.End()

	if tenantID.IsNil() {
		return diagnose.Result{}, dErrors.New(dErrors.CodeInvalidInput, "tenant id is required")
	}
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return diagnose.Result{}, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return diagnose.Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant record")
	}

	result := diagnose.Diagnose(evidence, tenantID)

	span.SetAttributes(
		attribute.Bool("healthy", result.Healthy),
		attribute.Int("issues", len(result.Issues)),
	)
	if s.metrics != nil {
		s.metrics.ObserveDiagnosis(result.Healthy)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "evidence diagnosed",
			"tenant_id", tenantID.String(),
			"healthy", result.Healthy,
			"issues", len(result.Issues),
		)
	}
	return result, nil
}

// effectiveConfig resolves every stored field for the report's effective
// view. Values are previewed, never embedded whole.
func (s *Service) effectiveConfig(record *models.Record) []EffectiveValue {
	var out []EffectiveValue
	for _, field := range s.registry.Fields() {
		if field.IsDerived() {
			continue
		}
		res, err := s.resolver.Resolve(record, field.ID)
		if err != nil {
			continue
		}
		ev := EffectiveValue{Path: field.ID, Source: string(res.Source)}
		if res.Present() {
			ev.Preview = resolve.Preview(res.Value, 40)
		}
		if engaged, ok := res.Value.(bool); ok && engaged && field.KillSwitch {
			ev.IsBlocking = true
			ev.BlockingEffect = field.BlockingEffect
		}
		out = append(out, ev)
	}
	return out
}
