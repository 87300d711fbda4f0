package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recordingHandler struct {
	called string
}

func (h *recordingHandler) CheckTrip(w http.ResponseWriter, _ *http.Request) {
	h.called = "CheckTrip"
	w.WriteHeader(http.StatusOK)
}

func (h *recordingHandler) GetTripHealth(w http.ResponseWriter, _ *http.Request) {
	h.called = "GetTripHealth"
	w.WriteHeader(http.StatusOK)
}

func (h *recordingHandler) ApplyFix(w http.ResponseWriter, _ *http.Request) {
	h.called = "ApplyFix"
	w.WriteHeader(http.StatusOK)
}

func (h *recordingHandler) FixAll(w http.ResponseWriter, _ *http.Request) {
	h.called = "FixAll"
	w.WriteHeader(http.StatusOK)
}

func requireHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func TestSetupRouter(t *testing.T) {
	const tripPath = "/api/v1/trips/8c1f7a52-2b4e-4d55-9a0e-0d3f5b0b6a11"

	tests := []struct {
		name       string
		method     string
		path       string
		auth       bool
		wantStatus int
		wantCalled string
	}{
		{"ping", http.MethodGet, "/ping", false, http.StatusOK, ""},
		{"check is public", http.MethodPost, "/api/v1/health/check", false, http.StatusOK, "CheckTrip"},
		{"health is public", http.MethodGet, tripPath + "/health", false, http.StatusOK, "GetTripHealth"},
		{"fix all needs auth", http.MethodPost, tripPath + "/fixes", false, http.StatusUnauthorized, ""},
		{"fix all", http.MethodPost, tripPath + "/fixes", true, http.StatusOK, "FixAll"},
		{"single fix needs auth", http.MethodPost, tripPath + "/fixes/empty:d2", false, http.StatusUnauthorized, ""},
		{"single fix", http.MethodPost, tripPath + "/fixes/empty:d2", true, http.StatusOK, "ApplyFix"},
		{"unknown route", http.MethodGet, "/api/v1/nope", false, http.StatusNotFound, ""},
		{"wrong method", http.MethodGet, "/api/v1/health/check", false, http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandler{}
			r := SetupRouter(&Config{TripHandler: h, AuthenticateMiddleware: requireHeader})

			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth {
				req.Header.Set("Authorization", "Bearer token")
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, h.called)
		})
	}
}

func TestSetupRouter_Ping(t *testing.T) {
	r := SetupRouter(&Config{TripHandler: &recordingHandler{}})
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "pong", rr.Body.String())
}
