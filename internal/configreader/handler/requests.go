package handler

import (
	"answerwire/internal/enforcement"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
)

// DryRunRequest is the POST body for a dry-run read session.
type DryRunRequest struct {
	// CallID, when set, correlates the dry run with an observed call.
	CallID string `json:"call_id,omitempty"`

	Paths []string `json:"paths"`

	// EnforcementMode, when set, overrides tenant and process settings for
	// this run only.
	EnforcementMode string `json:"enforcement_mode,omitempty"`

	ReaderIdentity string `json:"reader_identity,omitempty"`

	parsedCallID id.CallID
	parsedMode   enforcement.Mode
}

// Validate checks the request and caches parsed values.
func (r *DryRunRequest) Validate() error {
	if len(r.Paths) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one path is required")
	}
	for _, p := range r.Paths {
		if p == "" {
			return dErrors.New(dErrors.CodeValidation, "paths cannot contain empty strings")
		}
	}
	if r.CallID != "" {
		parsed, err := id.ParseCallID(r.CallID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeValidation, "invalid call_id")
		}
		r.parsedCallID = parsed
	}
	if r.EnforcementMode != "" {
		mode, err := enforcement.Parse(r.EnforcementMode)
		if err != nil {
			return err
		}
		r.parsedMode = mode
	}
	return nil
}
