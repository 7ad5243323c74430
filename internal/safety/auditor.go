// Package safety runs the cross-tenant-isolation battery against one tenant
// record. The checks are fixed, ordered, independent, and side-effect-free;
// the aggregate verdict flips to UNSAFE only on CRITICAL failures.
package safety

import (
	"fmt"
	"log/slog"

	"answerwire/internal/registry"
	"answerwire/internal/resolve"
	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
)

// Severity grades one check.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityWarning  Severity = "WARNING"
)

// Verdict is the aggregate outcome.
type Verdict string

const (
	VerdictSafe   Verdict = "SAFE"
	VerdictUnsafe Verdict = "UNSAFE"
)

// CheckResult is one invariant's outcome.
type CheckResult struct {
	Name     string   `json:"name"`
	Severity Severity `json:"severity"`
	Passed   bool     `json:"passed"`
	Details  []string `json:"details,omitempty"`

	// FieldRefs names the canonical paths a failure implicates, so the
	// health report can flag them as tenant risk.
	FieldRefs []string `json:"field_refs,omitempty"`

	// Error is set when the check itself blew up. The check counts as
	// failed at its declared severity; the audit still completes.
	Error string `json:"error,omitempty"`
}

// Proof is the immutable-per-evaluation audit record.
type Proof struct {
	TenantID id.TenantID   `json:"tenant_id"`
	Checks   []CheckResult `json:"checks"`
	Verdict  Verdict       `json:"verdict"`
}

// RiskPaths collects every canonical path implicated by a failed critical
// check.
func (p Proof) RiskPaths() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range p.Checks {
		if c.Passed || c.Severity != SeverityCritical {
			continue
		}
		for _, ref := range c.FieldRefs {
			if !seen[ref] {
				seen[ref] = true
				out = append(out, ref)
			}
		}
	}
	return out
}

// freeTextPaths are the canonical paths whose persisted values are tenant-
// authored prose, scanned by the content-pattern and placeholder checks.
var freeTextPaths = []string{
	registry.PathGreetingOpening,
	registry.PathGreetingAfterHours,
	registry.PathGreetingClosing,
	registry.PathBookingConfirmationPhrase,
	registry.PathComplianceRecordingDisclosure,
}

type check struct {
	name     string
	severity Severity
	run      func(a *Auditor, tenantID id.TenantID, record *models.Record) (details, fieldRefs []string)
}

// Auditor runs the battery. Safe for concurrent use.
type Auditor struct {
	registry *registry.Snapshot
	logger   *slog.Logger
	checks   []check
}

func New(snap *registry.Snapshot, logger *slog.Logger) *Auditor {
	return &Auditor{
		registry: snap,
		logger:   logger,
		checks: []check{
			{"identity_match", SeverityCritical, (*Auditor).checkIdentityMatch},
			{"no_embedded_content_bodies", SeverityCritical, (*Auditor).checkNoEmbeddedBodies},
			{"no_shared_content_patterns", SeverityCritical, (*Auditor).checkNoSharedPatterns},
			{"category_set", SeverityWarning, (*Auditor).checkCategorySet},
			{"placeholders_allowlisted", SeverityCritical, (*Auditor).checkPlaceholderAllowlist},
			{"no_foreign_tenant_literals", SeverityCritical, (*Auditor).checkNoForeignLiterals},
			{"references_only", SeverityCritical, (*Auditor).checkReferencesOnly},
		},
	}
}

// Audit runs every check in order and aggregates the verdict. It never
// aborts: a check that panics is recorded as failed with its error.
func (a *Auditor) Audit(tenantID id.TenantID, record *models.Record) Proof {
	proof := Proof{TenantID: tenantID, Verdict: VerdictSafe}
	for _, c := range a.checks {
		result := a.runCheck(c, tenantID, record)
		if !result.Passed && result.Severity == SeverityCritical {
			proof.Verdict = VerdictUnsafe
		}
		proof.Checks = append(proof.Checks, result)
	}
	return proof
}

func (a *Auditor) runCheck(c check, tenantID id.TenantID, record *models.Record) (result CheckResult) {
	result = CheckResult{Name: c.name, Severity: c.severity}
	defer func() {
		if r := recover(); r != nil {
			result.Passed = false
			result.Error = fmt.Sprintf("check panicked: %v", r)
			if a.logger != nil {
				a.logger.Error("safety check panicked", "check", c.name, "panic", r)
			}
		}
	}()

	details, refs := c.run(a, tenantID, record)
	result.Passed = len(details) == 0
	result.Details = details
	result.FieldRefs = refs
	return result
}

func (a *Auditor) checkIdentityMatch(tenantID id.TenantID, record *models.Record) ([]string, []string) {
	if record.ID != tenantID {
		return []string{fmt.Sprintf("record id %s does not match requested tenant %s", record.ID, tenantID)}, nil
	}
	return nil, nil
}

// freeText walks the record for one free-text path's persisted value.
func (a *Auditor) freeText(record *models.Record, path string) (string, bool) {
	field, ok := a.registry.Field(path)
	if !ok || field.IsDerived() {
		return "", false
	}
	v, found := resolve.Walk(record.Collection(field.Storage.Collection), field.Storage.Path)
	if !found {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
