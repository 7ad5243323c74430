package httpapi_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"answerwire/internal/configreader"
	readshandler "answerwire/internal/configreader/handler"
	"answerwire/internal/diagnose"
	"answerwire/internal/enforcement"
	enforcementhandler "answerwire/internal/enforcement/handler"
	httpapi "answerwire/internal/http"
	"answerwire/internal/registry"
	"answerwire/internal/report"
	reporthandler "answerwire/internal/report/handler"
	"answerwire/internal/resolve"
	tenantstore "answerwire/internal/tenant/store"
	"answerwire/internal/trace"
	id "answerwire/pkg/domain"
	"answerwire/pkg/platform/middleware/admin"
)

const testSigningKey = "router-test-key"

type stubReportService struct{}

func (stubReportService) Generate(context.Context, id.TenantID) (*report.Report, error) {
	return &report.Report{}, nil
}

func (stubReportService) Diagnose(context.Context, id.TenantID, diagnose.Evidence) (diagnose.Result, error) {
	return diagnose.Result{Healthy: true}, nil
}

func newTestRouter(t *testing.T, readiness map[string]func(context.Context) error) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	snap := registry.Load()
	resolver := resolve.New(snap, registry.LoadBridges())
	enfStore := enforcement.NewInMemory()
	enf := enforcement.NewResolver(enfStore, enforcement.ModeThrow, logger)
	publisher := trace.NewPublisher(16, logger, nil)
	factory := configreader.NewFactory(snap, resolver, enf, publisher, logger, nil)

	return httpapi.NewRouter(httpapi.Deps{
		Logger:      logger,
		Admin:       admin.NewVerifier(testSigningKey, ""),
		Report:      reporthandler.New(stubReportService{}, logger),
		Enforcement: enforcementhandler.New(enfStore, enf, logger),
		Reads:       readshandler.New(factory, tenantstore.NewInMemory(), logger),
		Readiness:   readiness,
	})
}

func adminToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSigningKey))
	require.NoError(t, err)
	return signed
}

func TestPublicEndpoints(t *testing.T) {
	router := newTestRouter(t, nil)

	for _, path := range []string{"/healthz", "/metrics"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "%s should not require auth", path)
	}
}

func TestReadyz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		router := newTestRouter(t, map[string]func(context.Context) error{
			"postgres": func(context.Context) error { return nil },
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"postgres":"ok"`)
	})

	t.Run("failing check degrades", func(t *testing.T) {
		router := newTestRouter(t, map[string]func(context.Context) error{
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})
}

func TestWiringAPIRequiresAdmin(t *testing.T) {
	router := newTestRouter(t, nil)
	path := "/v1/tenants/" + uuid.NewString() + "/report"

	t.Run("rejected without credential", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("accepted with admin token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("request id echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Authorization", "Bearer "+adminToken(t))
		req.Header.Set("X-Request-ID", "trace-me-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "trace-me-123", w.Header().Get("X-Request-ID"))
	})
}
