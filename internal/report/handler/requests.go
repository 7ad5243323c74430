package handler

import (
	"strings"

	"answerwire/internal/diagnose"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
	pstrings "answerwire/pkg/platform/strings"
)

// DiagnoseRequest is the HTTP request body for POST /v1/tenants/{tenantID}/diagnose:
// one run's evidence snapshot as collected by the caller's trace pipeline.
type DiagnoseRequest struct {
	CallID                   string   `json:"call_id,omitempty"`
	ResponseSource           string   `json:"response_source"`
	ScenarioCount            int      `json:"scenario_count"`
	KillSwitchEngaged        bool     `json:"kill_switch_engaged"`
	BookingKillSwitchEngaged bool     `json:"booking_kill_switch_engaged"`
	BookingRequested         bool     `json:"booking_requested"`
	BookingOffered           bool     `json:"booking_offered"`
	FallbackRate             float64  `json:"fallback_rate"`
	TotalReads               int      `json:"total_reads"`
	ViolationPaths           []string `json:"violation_paths,omitempty"`
	LegacyPaths              []string `json:"legacy_paths,omitempty"`
	ConfigHash               string   `json:"config_hash,omitempty"`

	// Parsed values (populated by Validate)
	parsedCallID id.CallID
}

// Validate validates and parses the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *DiagnoseRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeInvalidInput, "request body is required")
	}

	r.ResponseSource = strings.ToLower(strings.TrimSpace(r.ResponseSource))
	switch r.ResponseSource {
	case "", "scenario", "llm", "static":
	default:
		return dErrors.Newf(dErrors.CodeValidation, "unknown response_source %q", r.ResponseSource)
	}

	if r.ScenarioCount < 0 {
		return dErrors.New(dErrors.CodeValidation, "scenario_count cannot be negative")
	}
	if r.TotalReads < 0 {
		return dErrors.New(dErrors.CodeValidation, "total_reads cannot be negative")
	}
	if r.FallbackRate < 0 || r.FallbackRate > 1 {
		return dErrors.New(dErrors.CodeValidation, "fallback_rate must be in [0, 1]")
	}

	// Callers sometimes report the same offending path once per turn.
	r.ViolationPaths = pstrings.DedupeAndTrim(r.ViolationPaths)
	r.LegacyPaths = pstrings.DedupeAndTrim(r.LegacyPaths)

	if r.CallID != "" {
		callID, err := id.ParseCallID(r.CallID)
		if err != nil {
			return err
		}
		r.parsedCallID = callID
	}
	return nil
}

// Evidence returns the validated evidence snapshot.
func (r *DiagnoseRequest) Evidence() diagnose.Evidence {
	return diagnose.Evidence{
		CallID:                   r.parsedCallID,
		ResponseSource:           r.ResponseSource,
		ScenarioCount:            r.ScenarioCount,
		KillSwitchEngaged:        r.KillSwitchEngaged,
		BookingKillSwitchEngaged: r.BookingKillSwitchEngaged,
		BookingRequested:         r.BookingRequested,
		BookingOffered:           r.BookingOffered,
		FallbackRate:             r.FallbackRate,
		TotalReads:               r.TotalReads,
		ViolationPaths:           r.ViolationPaths,
		LegacyPaths:              r.LegacyPaths,
		ConfigHash:               r.ConfigHash,
	}
}
