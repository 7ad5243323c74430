// Package report composes every engine view of one tenant into the single
// wiring report: health classification, golden score, safety proof, tier
// evaluation, the three configuration maps, and their reconciliation diff.
package report

import (
	"time"

	"answerwire/internal/health"
	"answerwire/internal/safety"
	"answerwire/internal/tenant"
	"answerwire/internal/tier"
	id "answerwire/pkg/domain"
)

// Meta identifies one report run.
type Meta struct {
	TenantID        id.TenantID `json:"tenant_id"`
	TenantName      string      `json:"tenant_name"`
	Category        string      `json:"category,omitempty"`
	Environment     string      `json:"environment"`
	RegistryVersion string      `json:"registry_version"`
	GeneratedAt     time.Time   `json:"generated_at"`
	RequestID       string      `json:"request_id,omitempty"`
	Duration        string      `json:"duration"`
}

// Scoreboard is the at-a-glance rollup at the top of the report.
type Scoreboard struct {
	Aggregate      health.Aggregate      `json:"aggregate"`
	GoldenScore    float64               `json:"golden_score"`
	CountByStatus  map[health.Status]int `json:"count_by_status"`
	CriticalIssues []health.FieldHealth  `json:"critical_issues,omitempty"`
	SafetyVerdict  safety.Verdict        `json:"safety_verdict"`
}

// EffectiveValue is one resolved entry of the effective configuration: the
// value the runtime would see, with its provenance. An engaged kill switch
// carries IsBlocking plus the registry's description of what stops.
type EffectiveValue struct {
	Path           string `json:"path"`
	Source         string `json:"source"`
	Preview        string `json:"preview,omitempty"`
	IsBlocking     bool   `json:"is_blocking,omitempty"`
	BlockingEffect string `json:"blocking_effect,omitempty"`
}

// Diagrams holds the mermaid renderings embedded in the report.
type Diagrams struct {
	Wiring     string `json:"wiring"`
	Resolution string `json:"resolution"`
}

// Report is the full composite wiring report for one tenant.
type Report struct {
	Meta       Meta       `json:"meta"`
	Scoreboard Scoreboard `json:"scoreboard"`

	Seed tenant.SeedResult `json:"seed"`

	Fields    []health.FieldHealth `json:"fields"`
	DeadReads []health.FieldHealth `json:"dead_reads,omitempty"`

	UIMap      map[string][]health.UIField `json:"ui_map"`
	DataMap    []health.DataEntry          `json:"data_map"`
	RuntimeMap []health.RuntimeEntry       `json:"runtime_map"`

	EffectiveConfig []EffectiveValue `json:"effective_config"`

	Diff health.DiffReport `json:"diff"`

	SafetyProof safety.Proof    `json:"tenant_safety_proof"`
	Tiers       tier.Evaluation `json:"tier_evaluation"`

	Diagrams Diagrams `json:"diagrams"`
}
