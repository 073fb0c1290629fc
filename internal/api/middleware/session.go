package middleware

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/horizon/internal/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
)

// ContextKey is a custom type for context keys
type ContextKey string

const (
	// SessionKey is the context key for the parsed session claims
	SessionKey ContextKey = "session"
)

// OptionalSession reads the session cookie when present and stores its claims
// in the request context. Visitors without a valid cookie pass through as guests.
func OptionalSession(secret, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := sessionFromCookie(r, secret, cookieName); claims != nil {
				AddLogField(w, "user_id", claims.UserID)
				r = r.WithContext(context.WithValue(r.Context(), SessionKey, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects requests that carry no valid session cookie
func RequireSession(secret, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := sessionFromCookie(r, secret, cookieName)
			if claims == nil {
				utils.WriteError(w, errors.Unauthorized("Sign in to continue"))
				return
			}

			AddLogField(w, "user_id", claims.UserID)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), SessionKey, claims)))
		})
	}
}

func sessionFromCookie(r *http.Request, secret, cookieName string) *auth.Claims {
	cookie, err := r.Cookie(cookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	claims, err := auth.ParseClaims(cookie.Value, secret)
	if err != nil {
		return nil
	}
	return claims
}

// GetSession extracts the session claims from the request context
func GetSession(r *http.Request) (*auth.Claims, bool) {
	claims, ok := r.Context().Value(SessionKey).(*auth.Claims)
	return claims, ok
}
