// Package trace carries the append-only trace event stream: every config
// read, registry violation, legacy fallback, and summary emitted during a
// call or a report run.
//
// Emission is structurally incapable of affecting the caller: events go into
// a bounded in-process queue drained by a background worker, and a full
// queue drops the event (counted) rather than blocking. A sink outage
// degrades observability, never availability.
package trace

import (
	"time"

	id "answerwire/pkg/domain"
)

// Kind classifies a trace event. Values are wire constants consumed by the
// downstream analytics pipeline; never rename one.
type Kind string

const (
	KindConfigRead            Kind = "CONFIG_READ"
	KindViolation             Kind = "AW_VIOLATION"
	KindLegacyPathUsed        Kind = "LEGACY_PATH_USED"
	KindTurnSummary           Kind = "AW_TURN_SUMMARY"
	KindCallSummary           Kind = "AW_CALL_SUMMARY"
	KindBookingConfigResolved Kind = "BOOKING_CONFIG_RESOLVED"
)

// Event is one trace record. Correlation keys let the pipeline join all
// events of one call: call id + turn orders them, trace-run id groups them,
// and the config hash pins which effective configuration the call saw.
type Event struct {
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	TenantID   id.TenantID   `json:"tenant_id"`
	CallID     id.CallID     `json:"call_id,omitempty"`
	Turn       int           `json:"turn"`
	TraceRunID id.TraceRunID `json:"trace_run_id"`
	ConfigHash string        `json:"config_hash,omitempty"`

	// Per-read payload (CONFIG_READ, LEGACY_PATH_USED, AW_VIOLATION).
	Path         string `json:"path,omitempty"`
	Source       string `json:"source,omitempty"`
	ValueHash    string `json:"value_hash,omitempty"`
	ValuePreview string `json:"value_preview,omitempty"`
	Reader       string `json:"reader,omitempty"`

	// Free-form payload for summaries.
	Detail map[string]any `json:"detail,omitempty"`
}
