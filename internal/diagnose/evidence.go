// Package diagnose explains observed runtime behavior. A normalized
// evidence snapshot from one run is matched against a flat, ordered rule
// table; every match cites an exact root-cause node and fix. Deliberately
// not a scored classifier: same evidence, same answer, every time.
package diagnose

import (
	id "answerwire/pkg/domain"
)

// Evidence is the normalized snapshot of one observed run.
type Evidence struct {
	TenantID id.TenantID `json:"tenant_id"`
	CallID   id.CallID   `json:"call_id,omitempty"`

	// ResponseSource is where the run's answers came from: "scenario",
	// "llm", or "static".
	ResponseSource string `json:"response_source"`

	// ScenarioCount is the size of the scenario pool the run saw.
	ScenarioCount int `json:"scenario_count"`

	KillSwitchEngaged        bool `json:"kill_switch_engaged"`
	BookingKillSwitchEngaged bool `json:"booking_kill_switch_engaged"`
	BookingRequested         bool `json:"booking_requested"`
	BookingOffered           bool `json:"booking_offered"`

	// FallbackRate is the fraction of turns that missed the pool and fell
	// back, over the turns observed.
	FallbackRate float64 `json:"fallback_rate"`

	TotalReads     int      `json:"total_reads"`
	ViolationPaths []string `json:"violation_paths,omitempty"`
	LegacyPaths    []string `json:"legacy_paths,omitempty"`

	ConfigHash string `json:"config_hash,omitempty"`
}

// Severity orders issues. CRITICAL sorts first.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Issue is one matched rule.
type Issue struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Severity Severity `json:"severity"`

	// RootCause is the exact node responsible: a canonical path or an
	// engine component id.
	RootCause string `json:"root_cause"`

	Rule string `json:"rule"`
	Fix  string `json:"fix"`
}

// FieldPatch is one concrete value change remediating a matched issue.
type FieldPatch struct {
	Path        string `json:"path"`
	Current     any    `json:"current"`
	Recommended any    `json:"recommended"`
}

// Result is the diagnosis output.
type Result struct {
	// Healthy is false when any HIGH or CRITICAL issue matched.
	Healthy  bool         `json:"healthy"`
	Evidence Evidence     `json:"evidence"`
	Issues   []Issue      `json:"issues,omitempty"`
	Patch    []FieldPatch `json:"patch,omitempty"`
}
