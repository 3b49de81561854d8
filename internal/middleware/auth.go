package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vaultpass/passgen/internal/crypto"
)

type contextKey string

const subjectKey contextKey = "subject"

const tokenHint = "issue one with `passgen token --subject NAME`"

// 401 bodies returned by BearerAuth.
const (
	msgNoToken      = "generate API requires a bearer token; " + tokenHint
	msgNotBearer    = "Authorization header must be \"Bearer <token>\""
	msgTokenRefused = "bearer token rejected (wrong secret, issuer or audience, or expired); " + tokenHint
)

// BearerAuth guards the generate API when PASSGEN_JWT_SECRET is set. Tokens
// come from `passgen token`; the subject names the calling client and is
// placed in the request context for logging.
func BearerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, msgNoToken)
				return
			}

			raw, isBearer := strings.CutPrefix(header, "Bearer ")
			if !isBearer || raw == "" {
				unauthorized(w, msgNotBearer)
				return
			}

			client, err := crypto.ValidateToken(raw, secret)
			if err != nil {
				unauthorized(w, msgTokenRefused)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), subjectKey, client)))
		})
	}
}

// SubjectFromContext returns the client named by the request's bearer token.
// It is empty when the API runs without auth.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="passgen"`)
	writeJSONError(w, http.StatusUnauthorized, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
