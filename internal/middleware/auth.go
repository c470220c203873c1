package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"photoshare-backend/internal/models"
	"photoshare-backend/internal/services"

	"github.com/rs/zerolog/log"
)

type contextKey string

const sessionKey contextKey = "session"

// RequireAuth validates the session cookie, renews the session TTL and
// injects the session into the request context.
func RequireAuth(sessions *services.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(services.SessionCookie)
			if err != nil {
				respondError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			sess, err := sessions.Get(r.Context(), cookie.Value)
			if err != nil {
				if !errors.Is(err, services.ErrUnauthorized) {
					log.Error().Err(err).Msg("Failed to load session")
					respondError(w, "Internal server error", http.StatusInternalServerError)
					return
				}
				respondError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin sessions. Must run after RequireAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := GetSession(r.Context())
		if sess == nil {
			respondError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !sess.IsAdmin() {
			respondError(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSession extracts the session from the context, or nil when the
// request is unauthenticated.
func GetSession(ctx context.Context) *models.Session {
	sess, ok := ctx.Value(sessionKey).(*models.Session)
	if !ok {
		return nil
	}
	return sess
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
