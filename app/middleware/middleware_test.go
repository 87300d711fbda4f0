package appMiddleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-itinerary-health/config"
)

var testJWT = config.JWTConfig{SecretKey: "test-secret", Issuer: "itinerary-health", Audience: "itinerary-health-api"}

func signToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func validClaims() Claims {
	return Claims{
		UserID: "user-1",
		Role:   "planner",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "itinerary-health",
			Audience:  jwt.ClaimStrings{"itinerary-health-api"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func TestAuthenticate(t *testing.T) {
	var gotUser, gotRole string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = GetUserIDFromContext(r.Context())
		gotRole, _ = GetUserRoleFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := Authenticate(slog.New(slog.NewTextHandler(io.Discard, nil)), testJWT)(next)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	wrongAudience := validClaims()
	wrongAudience.Audience = jwt.ClaimStrings{"someone-else"}
	noUser := validClaims()
	noUser.UserID = ""

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + signToken(t, "test-secret", validClaims()), http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"bad format", "Token abc", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, "other", validClaims()), http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, "test-secret", expired), http.StatusUnauthorized},
		{"wrong audience", "Bearer " + signToken(t, "test-secret", wrongAudience), http.StatusUnauthorized},
		{"no user", "Bearer " + signToken(t, "test-secret", noUser), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotRole = "", ""
			req := httptest.NewRequest(http.MethodPost, "/api/v1/trips/x/fixes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, tt.status, rr.Code)
			if tt.status == http.StatusNoContent {
				assert.Equal(t, "user-1", gotUser)
				assert.Equal(t, "planner", gotRole)
			}
		})
	}
}

func TestAuthenticate_PanicsWithoutSecret(t *testing.T) {
	assert.Panics(t, func() {
		Authenticate(slog.New(slog.NewTextHandler(io.Discard, nil)), config.JWTConfig{})
	})
}
