// Package domain defines typed identifiers shared across modules.
//
// Each ID is a distinct type over uuid.UUID so the compiler rejects
// cross-assignment (a CallID can never be passed where a TenantID is
// expected). Parse functions enforce the invariant that IDs are valid,
// non-nil UUIDs at trust boundaries.
package domain

import (
	"github.com/google/uuid"

	dErrors "answerwire/pkg/domain-errors"
)

// TenantID identifies one tenant organization.
type TenantID uuid.UUID

// CallID identifies one live phone call.
type CallID uuid.UUID

// TraceRunID correlates all trace events emitted during one call or one
// report generation.
type TraceRunID uuid.UUID

func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id CallID) String() string     { return uuid.UUID(id).String() }
func (id TraceRunID) String() string { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CallID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id TraceRunID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// Defined types do not inherit uuid.UUID's marshaling, so each ID declares
// its own to keep the wire form a canonical uuid string.

func (id TenantID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id CallID) MarshalText() ([]byte, error)     { return []byte(id.String()), nil }
func (id TraceRunID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *TenantID) UnmarshalText(raw []byte) error {
	parsed, err := parseUUID(string(raw))
	if err != nil {
		return err
	}
	*id = TenantID(parsed)
	return nil
}

func (id *CallID) UnmarshalText(raw []byte) error {
	parsed, err := parseUUID(string(raw))
	if err != nil {
		return err
	}
	*id = CallID(parsed)
	return nil
}

func (id *TraceRunID) UnmarshalText(raw []byte) error {
	parsed, err := parseUUID(string(raw))
	if err != nil {
		return err
	}
	*id = TraceRunID(parsed)
	return nil
}

// NewCallID mints a fresh call ID.
func NewCallID() CallID { return CallID(uuid.New()) }

// NewTraceRunID mints a fresh trace-run correlation ID.
func NewTraceRunID() TraceRunID { return TraceRunID(uuid.New()) }

func parseUUID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "invalid id %q", raw)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil uuid")
	}
	return parsed, nil
}

// ParseTenantID parses and validates a tenant ID from its string form.
func ParseTenantID(raw string) (TenantID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return TenantID{}, err
	}
	return TenantID(parsed), nil
}

// ParseCallID parses and validates a call ID from its string form.
func ParseCallID(raw string) (CallID, error) {
	parsed, err := parseUUID(raw)
	if err != nil {
		return CallID{}, err
	}
	return CallID(parsed), nil
}
