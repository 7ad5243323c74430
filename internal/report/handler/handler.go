package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"answerwire/internal/diagnose"
	"answerwire/internal/report"
	id "answerwire/pkg/domain"
	"answerwire/pkg/platform/httputil"
	"answerwire/pkg/requestcontext"
)

// Service defines the interface for report operations.
type Service interface {
	Generate(ctx context.Context, tenantID id.TenantID) (*report.Report, error)
	Diagnose(ctx context.Context, tenantID id.TenantID, evidence diagnose.Evidence) (diagnose.Result, error)
}

// Handler wires report endpoints to the report service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a report handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Register mounts report endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/tenants/{tenantID}/report", h.HandleGenerate)
	r.Post("/v1/tenants/{tenantID}/diagnose", h.HandleDiagnose)
}

// HandleGenerate handles POST /v1/tenants/{tenantID}/report requests.
// ?format=markdown returns the rendered summary instead of JSON.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Generate(ctx, tenantID)
	if err != nil {
		h.logger.ErrorContext(ctx, "report generation failed",
			"request_id", requestID,
			"tenant_id", tenantID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "report served",
		"request_id", requestID,
		"tenant_id", tenantID.String(),
		"aggregate", result.Scoreboard.Aggregate,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if r.URL.Query().Get("format") == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(report.Markdown(result)))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleDiagnose handles POST /v1/tenants/{tenantID}/diagnose requests.
func (h *Handler) HandleDiagnose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[DiagnoseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Diagnose(ctx, tenantID, req.Evidence())
	if err != nil {
		h.logger.ErrorContext(ctx, "diagnosis failed",
			"request_id", requestID,
			"tenant_id", tenantID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
