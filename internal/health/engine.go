package health

import (
	"context"
	"log/slog"
	"sort"

	"answerwire/internal/content"
	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
)

// Engine classifies every registry field for one tenant snapshot. Safe for
// concurrent use; all state is request-scoped.
type Engine struct {
	registry    *registry.Snapshot
	consumption *registry.ConsumptionMap
	resolver    *resolve.Resolver
	catalog     content.Catalog
	logger      *slog.Logger
}

func NewEngine(
	snap *registry.Snapshot,
	consumption *registry.ConsumptionMap,
	resolver *resolve.Resolver,
	catalog content.Catalog,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		registry:    snap,
		consumption: consumption,
		resolver:    resolver,
		catalog:     catalog,
		logger:      logger,
	}
}

// Evaluation is one tenant's full field classification.
type Evaluation struct {
	Fields []FieldHealth `json:"fields"`

	// DeadReads are consumption-map paths absent from the registry.
	// Registry drift; the same for every tenant.
	DeadReads []FieldHealth `json:"dead_reads,omitempty"`

	byPath map[string]*FieldHealth
}

// Evaluate classifies every field node against the given record. It always
// returns a complete evaluation; a derivation failure degrades the affected
// field, never the whole evaluation.
func (e *Engine) Evaluate(ctx context.Context, record *models.Record) *Evaluation {
	eval := &Evaluation{byPath: make(map[string]*FieldHealth)}

	for _, field := range e.registry.Fields() {
		var fh FieldHealth
		if field.IsDerived() {
			fh = e.evaluateDerived(ctx, field, record)
		} else {
			fh = e.evaluateStored(field, record)
		}
		eval.Fields = append(eval.Fields, fh)
	}
	sort.Slice(eval.Fields, func(i, j int) bool {
		return eval.Fields[i].Path < eval.Fields[j].Path
	})
	for i := range eval.Fields {
		eval.byPath[eval.Fields[i].Path] = &eval.Fields[i]
	}

	for _, path := range e.consumption.DeadReads(e.registry) {
		eval.DeadReads = append(eval.DeadReads, FieldHealth{
			Path:   path,
			Status: StatusDeadRead,
		})
	}
	return eval
}

func (e *Engine) evaluateDerived(ctx context.Context, field *registry.FieldNode, record *models.Record) FieldHealth {
	fh := e.newFieldHealth(field)

	var refs []string
	for _, link := range record.ActiveLinks() {
		refs = append(refs, link.RefID)
	}
	if len(refs) == 0 {
		fh.Status = StatusNotConfigured
		return fh
	}

	stats, err := content.DerivePool(ctx, e.catalog, record.ID, refs)
	if err != nil {
		// Source exists but could not be loaded. Distinct from a
		// validation failure: the wiring may be fine.
		fh.Status = StatusPartial
		fh.Error = "derivation source unreachable: " + err.Error()
		if e.logger != nil {
			e.logger.Warn("derivation failed", "path", field.ID, "tenant_id", record.ID.String(), "error", err)
		}
		return fh
	}
	if stats.ActiveCount == 0 {
		fh.Status = StatusPartial
		return fh
	}
	fh.Status = StatusWired
	return fh
}

func (e *Engine) evaluateStored(field *registry.FieldNode, record *models.Record) FieldHealth {
	fh := e.newFieldHealth(field)
	hasReader := e.consumption.Has(field.ID)

	res, err := e.resolver.Resolve(record, field.ID)
	if err != nil {
		fh.Status = StatusPartial
		fh.Error = "resolution failed: " + err.Error()
		return fh
	}
	persisted := res.Source == resolve.SourceTenantRecord || res.Source == resolve.SourceLegacyBridge
	if persisted {
		fh.Source = string(res.Source)
	}

	if !hasReader {
		if persisted {
			fh.Status = StatusUIOnly
		} else {
			fh.Status = StatusNotConfigured
		}
		return fh
	}

	if !persisted {
		if field.Required {
			fh.Status = StatusMisconfigured
			fh.Finding = &Finding{
				Reason:   "required field has no persisted value",
				Expected: "a value stored at " + field.Storage.Path,
				Actual:   "nothing persisted",
				Fix:      "set " + field.Label + " in the " + field.UI.Tab + " tab",
			}
		} else {
			fh.Status = StatusNotConfigured
		}
		return fh
	}

	for _, validatorID := range field.Validators {
		validator, ok := registry.Lookup(validatorID)
		if !ok {
			continue
		}
		if validator.Check(res.Value) {
			continue
		}
		reason, expected, actual, fix := registry.Describe(validatorID, res.Value)
		fh.Status = StatusMisconfigured
		fh.Finding = &Finding{Reason: reason, Expected: expected, Actual: actual, Fix: fix}
		return fh
	}

	fh.Status = StatusWired
	return fh
}

func (e *Engine) newFieldHealth(field *registry.FieldNode) FieldHealth {
	return FieldHealth{
		Path:     field.ID,
		Label:    field.Label,
		Tab:      field.UI.Tab,
		Required: field.Required,
		Critical: field.Critical,
		Kind:     field.Kind,
	}
}

// Field returns one path's classification.
func (ev *Evaluation) Field(path string) (FieldHealth, bool) {
	fh, ok := ev.byPath[path]
	if !ok {
		return FieldHealth{}, false
	}
	return *fh, true
}

// ApplyRiskOverlay reclassifies the given paths as TENANT_RISK. Isolation
// risk outranks every wiring status.
func (ev *Evaluation) ApplyRiskOverlay(paths []string) {
	for _, path := range paths {
		if fh, ok := ev.byPath[path]; ok {
			fh.Status = StatusTenantRisk
		}
	}
}

// Aggregate rolls the evaluation up: RED when anything is misconfigured or
// risk-flagged, YELLOW when partial or dead config exists, GREEN otherwise.
func (ev *Evaluation) Aggregate() Aggregate {
	agg := AggregateGreen
	for _, fh := range ev.Fields {
		switch fh.Status {
		case StatusMisconfigured, StatusTenantRisk:
			return AggregateRed
		case StatusUIOnly, StatusPartial:
			agg = AggregateYellow
		}
	}
	return agg
}

// CriticalIssues lists the fields justifying a RED aggregate. Never empty
// when Aggregate returns RED.
func (ev *Evaluation) CriticalIssues() []FieldHealth {
	var out []FieldHealth
	for _, fh := range ev.Fields {
		if fh.Status == StatusMisconfigured || fh.Status == StatusTenantRisk {
			out = append(out, fh)
		}
	}
	return out
}

// CountByStatus tallies field classifications for the scoreboard.
func (ev *Evaluation) CountByStatus() map[Status]int {
	out := make(map[Status]int)
	for _, fh := range ev.Fields {
		out[fh.Status]++
	}
	return out
}
