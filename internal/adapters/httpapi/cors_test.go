package httpapi_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.uber.org/mock/gomock"
)

func TestCORS_Preflight(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tailor", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-trace")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	h := rec.Header()
	assert.Equal(t, "http://localhost:5173", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", h.Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "GET, POST, PUT, DELETE, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "content-type, x-trace", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "3600", h.Get("Access-Control-Max-Age"))
}

func TestCORS_SimpleRequest(t *testing.T) {
	s, svc, _ := newTestServer(t)
	svc.EXPECT().Tailor(gomock.Any(), "", "").Return(domain.Ok("ok"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tailor", strings.NewReader(`{}`))
	req.Header.Set("Origin", "https://career-catalyst-frontend.onrender.com")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://career-catalyst-frontend.onrender.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	s, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/tailor", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.NotEqual(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
