// Package enforcement controls how the config reader treats reads of paths
// missing from the registry.
//
// Mode resolution order: explicit override > per-tenant setting > process
// default. The process default is warn in production-like environments and
// throw everywhere else, so drift aborts loudly in development but never
// takes down a live call.
package enforcement

import (
	"context"
	"log/slog"

	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
)

// Mode is the registry-violation policy.
type Mode string

const (
	// ModeOff skips registry membership checks entirely.
	ModeOff Mode = "off"
	// ModeWarn logs a violation and still resolves the value.
	ModeWarn Mode = "warn"
	// ModeThrow aborts the read with an error naming the offending path.
	ModeThrow Mode = "throw"

	// ModeUnset means "no opinion"; resolution falls through to the next
	// layer.
	ModeUnset Mode = ""
)

// Parse validates a mode string from config or the admin API.
func Parse(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeOff, ModeWarn, ModeThrow:
		return Mode(raw), nil
	}
	return ModeUnset, dErrors.Newf(dErrors.CodeInvalidInput, "enforcement mode must be off, warn, or throw, got %q", raw)
}

// DefaultForEnvironment picks the process-wide default.
func DefaultForEnvironment(env string) Mode {
	switch env {
	case "production", "prod", "staging":
		return ModeWarn
	}
	return ModeThrow
}

// OverrideStore persists per-tenant enforcement overrides.
type OverrideStore interface {
	TenantMode(ctx context.Context, tenantID id.TenantID) (Mode, bool, error)
	SetTenantMode(ctx context.Context, tenantID id.TenantID, mode Mode) error
	ClearTenantMode(ctx context.Context, tenantID id.TenantID) error
}

// Resolver computes the effective mode for a tenant.
type Resolver struct {
	store          OverrideStore
	processDefault Mode
	logger         *slog.Logger
}

// NewResolver builds a resolver over the override store.
func NewResolver(store OverrideStore, processDefault Mode, logger *slog.Logger) *Resolver {
	if processDefault == ModeUnset {
		processDefault = ModeWarn
	}
	return &Resolver{store: store, processDefault: processDefault, logger: logger}
}

// ModeFor resolves the effective mode. A store outage degrades to the
// process default: enforcement lookup must never fail a call.
func (r *Resolver) ModeFor(ctx context.Context, tenantID id.TenantID, explicit Mode) Mode {
	if explicit != ModeUnset {
		return explicit
	}
	if r.store != nil {
		mode, ok, err := r.store.TenantMode(ctx, tenantID)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn("enforcement override lookup failed, using process default",
					"tenant_id", tenantID.String(),
					"default", string(r.processDefault),
					"error", err,
				)
			}
			return r.processDefault
		}
		if ok {
			return mode
		}
	}
	return r.processDefault
}

// ProcessDefault returns the configured process-wide default mode.
func (r *Resolver) ProcessDefault() Mode { return r.processDefault }
