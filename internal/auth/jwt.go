package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/pratik-mahalle/horizon/internal/domain/auth"
)

// Claims is the browser session carried in the signed cookie. Session holds
// the identity provider's token so sign-out can revoke it upstream.
type Claims struct {
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	FirstName string `json:"fn,omitempty"`
	Session   string `json:"sid"`
	jwt.RegisteredClaims
}

// User returns the signed-in user the claims describe
func (c *Claims) User() *domain.User {
	return &domain.User{ID: c.UserID, Email: c.Email, FirstName: c.FirstName}
}

func MintSession(s *domain.Session, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	if !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(expires) {
		expires = s.ExpiresAt
	}

	claims := Claims{
		Session: s.Token,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	if s.User != nil {
		claims.UserID = s.User.ID
		claims.Email = s.User.Email
		claims.FirstName = s.User.FirstName
		claims.Subject = s.User.ID
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func ParseClaims(tokenStr, secret string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
