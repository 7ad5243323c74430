package handler

import (
	"answerwire/internal/enforcement"
)

// UpdateRequest is the PUT body for a tenant enforcement override.
type UpdateRequest struct {
	Mode string `json:"mode"`

	parsedMode enforcement.Mode
}

// Validate checks the requested mode and caches the parsed value.
func (r *UpdateRequest) Validate() error {
	mode, err := enforcement.Parse(r.Mode)
	if err != nil {
		return err
	}
	r.parsedMode = mode
	return nil
}

// ParsedMode returns the mode parsed during Validate.
func (r *UpdateRequest) ParsedMode() enforcement.Mode { return r.parsedMode }
