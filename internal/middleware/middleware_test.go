package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultpass/passgen/internal/crypto"
)

func echoSubject(w http.ResponseWriter, r *http.Request) {
	subject, _ := SubjectFromContext(r.Context())
	io.WriteString(w, subject)
}

func TestBearerAuth(t *testing.T) {
	secret := "test-secret"
	token, err := crypto.IssueToken("ci-runner", secret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantBody: "passgen token --subject"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantBody: "Bearer <token>"},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantBody: "Bearer <token>"},
		{name: "invalid token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantBody: "passgen token --subject"},
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusOK, wantBody: "ci-runner"},
	}

	h := BearerAuth(secret)(http.HandlerFunc(echoSubject))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusUnauthorized {
				assert.Equal(t, tt.wantBody, rec.Body.String())
				return
			}

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Contains(t, body["error"], tt.wantBody)
			assert.Equal(t, `Bearer realm="passgen"`, rec.Header().Get("WWW-Authenticate"))
		})
	}
}

func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := RateLimit(ctx, 0.001, 2)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(remote string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/generate", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:5000"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5002"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:5000"), "other clients keep their own budget")
}

func TestRateLimiterEvict(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	now := time.Now()

	rl.allow("10.0.0.1", now.Add(-time.Hour))
	rl.allow("10.0.0.2", now)
	rl.evict(now.Add(-visitorIdleTTL))

	assert.NotContains(t, rl.visitors, "10.0.0.1")
	assert.Contains(t, rl.visitors, "10.0.0.2")
}

func TestLogger(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
