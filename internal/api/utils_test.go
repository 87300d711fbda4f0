package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSONBody(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"ok", `{"name":"Kyoto"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"syntax", `{"name":`, "badly-formed JSON"},
		{"unknown field", `{"name":"Kyoto","extra":1}`, `unknown key "extra"`},
		{"wrong type", `{"name":3}`, `incorrect JSON type for field "name"`},
		{"two values", `{"name":"a"}{"name":"b"}`, "single JSON value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst payload
			err := DecodeJSONBody(httptest.NewRecorder(), req, &dst)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Kyoto", dst.Name)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestErrorResponse(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorResponse(rr, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Trip not found")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"error":"Trip not found","request_id":""}`, rr.Body.String())
}

func TestVerifyAudience(t *testing.T) {
	assert.True(t, VerifyAudience(nil, ""))
	assert.False(t, VerifyAudience(nil, "api"))
	assert.True(t, VerifyAudience(jwt.ClaimStrings{"web", "api"}, "api"))
	assert.False(t, VerifyAudience(jwt.ClaimStrings{"web"}, "api"))
}
