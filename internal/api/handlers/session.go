package handlers

import (
	"net/http"
	"time"

	jwtauth "github.com/pratik-mahalle/horizon/internal/auth"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
)

// SessionConfig controls the signed session cookie
type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// startSession signs s into the session cookie
func (c SessionConfig) startSession(w http.ResponseWriter, r *http.Request, s *auth.Session) error {
	token, expires, err := jwtauth.MintSession(s, c.Secret, c.TTL)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		HttpOnly: true,
		Secure:   isSecure(r, c.Secure),
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// endSession expires the session cookie
func (c SessionConfig) endSession(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   isSecure(r, c.Secure),
		SameSite: http.SameSiteLaxMode,
	})
}
