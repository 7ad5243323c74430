// Package health cross-references the registry, the runtime consumption map,
// and one tenant's persisted data to classify every field and aggregate the
// tenant's configuration health.
package health

import "answerwire/internal/registry"

// Status is one field's wiring classification. Exactly one holds per field
// per evaluation.
type Status string

const (
	// StatusWired means the field is declared, consumed, persisted, and valid.
	StatusWired Status = "WIRED"

	// StatusPartial means the wiring exists but yields nothing usable, e.g.
	// a derived field whose source is linked but produces zero units.
	StatusPartial Status = "PARTIAL"

	// StatusMisconfigured means a persisted value failed validation, or a
	// required field is consumed at runtime with nothing persisted.
	StatusMisconfigured Status = "MISCONFIGURED"

	// StatusNotConfigured means nothing is persisted and nothing requires
	// it to be.
	StatusNotConfigured Status = "NOT_CONFIGURED"

	// StatusUIOnly means a value is persisted but no runtime code reads the
	// path. Dead config.
	StatusUIOnly Status = "UI_ONLY"

	// StatusDeadRead means runtime code reads a path the registry does not
	// declare. Registry drift; tenant-independent.
	StatusDeadRead Status = "DEAD_READ"

	// StatusTenantRisk means a cross-tenant-isolation check implicated this
	// field. Overrides any other classification.
	StatusTenantRisk Status = "TENANT_RISK"
)

// Aggregate is the tenant-level rollup.
type Aggregate string

const (
	AggregateGreen  Aggregate = "GREEN"
	AggregateYellow Aggregate = "YELLOW"
	AggregateRed    Aggregate = "RED"
)

// Finding explains a MISCONFIGURED classification. Never empty on red
// health: the engine always says what is wrong and how to fix it.
type Finding struct {
	Reason   string `json:"reason"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Fix      string `json:"fix"`
}

// FieldHealth is one field's evaluation result.
type FieldHealth struct {
	Path     string        `json:"path"`
	Label    string        `json:"label"`
	Tab      string        `json:"tab"`
	Status   Status        `json:"status"`
	Source   string        `json:"source,omitempty"`
	Required bool          `json:"required,omitempty"`
	Critical bool          `json:"critical,omitempty"`
	Finding  *Finding      `json:"finding,omitempty"`
	Kind     registry.Kind `json:"kind"`

	// Error carries a derivation failure. The field keeps a wiring status;
	// the error explains why it could not be fully evaluated.
	Error string `json:"error,omitempty"`
}
