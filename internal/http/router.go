// Package httpapi assembles the HTTP surface: shared middleware, operational
// endpoints, and the admin-protected wiring API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	readshandler "answerwire/internal/configreader/handler"
	enforcementhandler "answerwire/internal/enforcement/handler"
	reporthandler "answerwire/internal/report/handler"
	"answerwire/pkg/platform/httputil"
	"answerwire/pkg/platform/middleware/admin"
	"answerwire/pkg/platform/middleware/metadata"
	"answerwire/pkg/platform/middleware/requestid"
	"answerwire/pkg/platform/middleware/requesttime"
)

// Deps carries everything the router mounts. All fields are required except
// Readiness.
type Deps struct {
	Logger      *slog.Logger
	Admin       *admin.Verifier
	Report      *reporthandler.Handler
	Enforcement *enforcementhandler.Handler
	Reads       *readshandler.Handler

	// Readiness checks run on /readyz, keyed by dependency name.
	Readiness map[string]func(context.Context) error
}

// NewRouter wires middleware and routes. The wiring API sits behind admin
// auth; health and metrics stay public for probes and scrapers.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", handleReadyz(d))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(g chi.Router) {
		g.Use(admin.RequireAdmin(d.Admin, d.Logger))
		d.Report.Register(g)
		d.Enforcement.Register(g)
		d.Reads.Register(g)
	})

	return r
}

func handleReadyz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := http.StatusOK
		results := make(map[string]string, len(d.Readiness))
		for name, check := range d.Readiness {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				d.Logger.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
				continue
			}
			results[name] = "ok"
		}
		httputil.WriteJSON(w, status, results)
	}
}
