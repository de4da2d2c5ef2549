package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"rentmarket-backend/internal/authz"
	"rentmarket-backend/internal/logger"
	"rentmarket-backend/internal/security"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware validates the bearer token and stores the resulting
// principal in the request context. Every route behind it can assume an
// authenticated caller.
func AuthMiddleware(tm security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, http.StatusUnauthorized, envelope{"success": false, "error": "authorization token is not provided"})
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")

			claims, err := tm.ValidateToken(token)
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, envelope{"success": false, "error": "invalid or expired token"})
				return
			}

			principal := authz.Principal{ID: claims.UserID, Email: claims.Email, Role: claims.Role}
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// principalFrom returns the authenticated principal stored by AuthMiddleware.
func principalFrom(r *http.Request) authz.Principal {
	p, _ := r.Context().Value(principalKey).(authz.Principal)
	return p
}

// LoggingMiddleware logs one line per request with method, path and latency.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Info("Request handled", "method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}
