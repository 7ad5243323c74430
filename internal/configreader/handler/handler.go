// Package handler exposes a dry-run read endpoint over the config reader.
// Operators replay a call's read pattern against a tenant and get back the
// resolved values plus the call summary, with trace events flowing through
// the normal pipeline.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"answerwire/internal/configreader"
	"answerwire/internal/tenant/models"
	id "answerwire/pkg/domain"
	dErrors "answerwire/pkg/domain-errors"
	"answerwire/pkg/platform/httputil"
	"answerwire/pkg/platform/sentinel"
	"answerwire/pkg/requestcontext"
)

// TenantStore loads the record a dry run resolves against.
type TenantStore interface {
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Record, error)
}

// Handler serves dry-run reads.
type Handler struct {
	factory *configreader.Factory
	tenants TenantStore
	logger  *slog.Logger
}

// New builds a dry-run handler.
func New(factory *configreader.Factory, tenants TenantStore, logger *slog.Logger) *Handler {
	return &Handler{factory: factory, tenants: tenants, logger: logger}
}

// Register mounts the dry-run route on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/tenants/{tenantID}/reads", h.HandleDryRun)
}

// ReadResult is one path's dry-run outcome.
type ReadResult struct {
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
}

// DryRunResponse is the dry-run payload.
type DryRunResponse struct {
	CallID     string               `json:"call_id"`
	TraceRunID string               `json:"trace_run_id"`
	Mode       string               `json:"enforcement_mode"`
	Reads      []ReadResult         `json:"reads"`
	Summary    configreader.Summary `json:"summary"`
}

// HandleDryRun replays the requested paths through a fresh reader.
func (h *Handler) HandleDryRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid tenant id"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[DryRunRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	record, err := h.tenants.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "tenant not found"))
			return
		}
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant"))
		return
	}

	callID := req.parsedCallID
	if callID.IsNil() {
		callID = id.NewCallID()
	}
	identity := req.ReaderIdentity
	if identity == "" {
		identity = "dry-run"
	}

	reader, err := h.factory.ForCall(ctx, configreader.CallOptions{
		CallID:          callID,
		TenantID:        tenantID,
		Record:          record,
		ReaderIdentity:  identity,
		EnforcementMode: req.parsedMode,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reads := make([]ReadResult, 0, len(req.Paths))
	for _, path := range req.Paths {
		value, err := reader.Get(path, nil)
		result := ReadResult{Path: path, Value: value}
		if err != nil {
			result.Error = err.Error()
		}
		reads = append(reads, result)
	}

	h.logger.InfoContext(ctx, "dry-run reads completed",
		"tenant_id", tenantID.String(),
		"call_id", callID.String(),
		"paths", len(req.Paths),
	)

	httputil.WriteJSON(w, http.StatusOK, DryRunResponse{
		CallID:     callID.String(),
		TraceRunID: reader.Scope().TraceRunID.String(),
		Mode:       string(reader.Mode()),
		Reads:      reads,
		Summary:    reader.EmitCallSummary(),
	})
}
