package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"answerwire/internal/enforcement"
	"answerwire/internal/enforcement/handler"
	id "answerwire/pkg/domain"
)

type EnforcementHandlerSuite struct {
	suite.Suite

	store  *enforcement.InMemory
	router chi.Router
}

func TestEnforcementHandlerSuite(t *testing.T) {
	suite.Run(t, new(EnforcementHandlerSuite))
}

func (s *EnforcementHandlerSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.store = enforcement.NewInMemory()
	resolver := enforcement.NewResolver(s.store, enforcement.ModeThrow, logger)

	s.router = chi.NewRouter()
	handler.New(s.store, resolver, logger).Register(s.router)
}

func (s *EnforcementHandlerSuite) getMode(tenantID id.TenantID) map[string]string {
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/"+tenantID.String()+"/enforcement", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	var resp map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (s *EnforcementHandlerSuite) TestGetFallsBackToProcessDefault() {
	tenantID := id.TenantID(uuid.New())

	resp := s.getMode(tenantID)
	assert.Equal(s.T(), "throw", resp["effective_mode"])
	assert.Equal(s.T(), "throw", resp["process_default"])
	assert.Empty(s.T(), resp["override"])
}

func (s *EnforcementHandlerSuite) TestSetThenGet() {
	tenantID := id.TenantID(uuid.New())

	body, err := json.Marshal(map[string]string{"mode": "off"})
	require.NoError(s.T(), err)
	req := httptest.NewRequest(http.MethodPut, "/v1/tenants/"+tenantID.String()+"/enforcement", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusOK, w.Code)

	resp := s.getMode(tenantID)
	assert.Equal(s.T(), "off", resp["effective_mode"])
	assert.Equal(s.T(), "off", resp["override"])
	assert.Equal(s.T(), "throw", resp["process_default"])
}

func (s *EnforcementHandlerSuite) TestSetRejectsUnknownMode() {
	tenantID := id.TenantID(uuid.New())

	body, err := json.Marshal(map[string]string{"mode": "loud"})
	require.NoError(s.T(), err)
	req := httptest.NewRequest(http.MethodPut, "/v1/tenants/"+tenantID.String()+"/enforcement", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	var resp map[string]string
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(s.T(), resp["error_description"], "off, warn, or throw")
}

func (s *EnforcementHandlerSuite) TestClearRestoresDefault() {
	tenantID := id.TenantID(uuid.New())
	s.Require().NoError(s.store.SetTenantMode(s.T().Context(), tenantID, enforcement.ModeWarn))

	req := httptest.NewRequest(http.MethodDelete, "/v1/tenants/"+tenantID.String()+"/enforcement", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	s.Require().Equal(http.StatusNoContent, w.Code)

	resp := s.getMode(tenantID)
	assert.Equal(s.T(), "throw", resp["effective_mode"])
	assert.Empty(s.T(), resp["override"])
}

func (s *EnforcementHandlerSuite) TestBadTenantID() {
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/not-a-uuid/enforcement", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}
