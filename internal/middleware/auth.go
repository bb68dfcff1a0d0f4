package middleware

import (
	"context"
	"net/http"

	"github.com/printmate/printmate/internal/ctxkeys"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/service"
)

// SessionResolver is implemented by *service.AuthService.
type SessionResolver interface {
	VerifyJWT(token string) (string, error)
	Identity(ctx context.Context, userID string) (*model.Identity, error)
	ClearJWTCookie(w http.ResponseWriter)
}

// Auth resolves the auth cookie to an identity and stores it in the request context.
// Requests without a valid session continue anonymously.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.AuthCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := sessions.VerifyJWT(cookie.Value)
			if err != nil {
				sessions.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			identity, err := sessions.Identity(r.Context(), userID)
			if err != nil {
				// Deleted user or unreachable store: treat as signed out
				sessions.ClearJWTCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth answers 401 for requests without a session.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) == nil {
			jsonError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	}
}

// RequireGuest answers 409 when a session already exists.
func RequireGuest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.Identity(r.Context()) != nil {
			jsonError(w, http.StatusConflict, "already_authenticated", "Already signed in")
			return
		}
		next.ServeHTTP(w, r)
	}
}
