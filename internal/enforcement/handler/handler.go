// Package handler exposes the per-tenant enforcement override API.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"answerwire/internal/enforcement"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
	"answerwire/pkg/platform/httputil"
	"answerwire/pkg/requestcontext"
)

// Handler serves enforcement override reads and writes.
type Handler struct {
	store    enforcement.OverrideStore
	resolver *enforcement.Resolver
	logger   *slog.Logger
}

// New builds an enforcement handler.
func New(store enforcement.OverrideStore, resolver *enforcement.Resolver, logger *slog.Logger) *Handler {
	return &Handler{store: store, resolver: resolver, logger: logger}
}

// Register mounts the enforcement routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/v1/tenants/{tenantID}/enforcement", h.HandleGet)
	r.Put("/v1/tenants/{tenantID}/enforcement", h.HandleSet)
	r.Delete("/v1/tenants/{tenantID}/enforcement", h.HandleClear)
}

type modeResponse struct {
	TenantID       string `json:"tenant_id"`
	EffectiveMode  string `json:"effective_mode"`
	Override       string `json:"override,omitempty"`
	ProcessDefault string `json:"process_default"`
}

// HandleGet reports the effective mode for a tenant alongside any override.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid tenant id"))
		return
	}

	resp := modeResponse{
		TenantID:       tenantID.String(),
		EffectiveMode:  string(h.resolver.ModeFor(ctx, tenantID, enforcement.ModeUnset)),
		ProcessDefault: string(h.resolver.ProcessDefault()),
	}
	if override, ok, err := h.store.TenantMode(ctx, tenantID); err == nil && ok {
		resp.Override = string(override)
	}

	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleSet writes a per-tenant override.
func (h *Handler) HandleSet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid tenant id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	if err := h.store.SetTenantMode(ctx, tenantID, req.ParsedMode()); err != nil {
		h.logger.ErrorContext(ctx, "failed to persist enforcement override",
			"tenant_id", tenantID.String(),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist enforcement override"))
		return
	}

	h.logger.InfoContext(ctx, "enforcement override set",
		"tenant_id", tenantID.String(),
		"mode", string(req.ParsedMode()),
	)

	httputil.WriteJSON(w, http.StatusOK, modeResponse{
		TenantID:       tenantID.String(),
		EffectiveMode:  string(req.ParsedMode()),
		Override:       string(req.ParsedMode()),
		ProcessDefault: string(h.resolver.ProcessDefault()),
	})
}

// HandleClear removes a per-tenant override. Clearing a tenant with no
// override succeeds.
func (h *Handler) HandleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid tenant id"))
		return
	}

	if err := h.store.ClearTenantMode(ctx, tenantID); err != nil {
		h.logger.ErrorContext(ctx, "failed to clear enforcement override",
			"tenant_id", tenantID.String(),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear enforcement override"))
		return
	}

	h.logger.InfoContext(ctx, "enforcement override cleared", "tenant_id", tenantID.String())
	w.WriteHeader(http.StatusNoContent)
}
