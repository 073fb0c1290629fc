package services

import (
	"context"
	"strconv"
	"time"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/metrics"
	"github.com/pratik-mahalle/horizon/pkg/client"
)

// IdentityService implements auth.Identity on top of the identity provider client
type IdentityService struct {
	client *client.Client
	logger *logger.Logger
}

// NewIdentityService creates a new identity service
func NewIdentityService(c *client.Client, log *logger.Logger) *IdentityService {
	if log == nil {
		log = logger.Discard()
	}
	return &IdentityService{
		client: c,
		logger: log,
	}
}

// CreateAccount registers a new account from a sign-up profile
func (s *IdentityService) CreateAccount(ctx context.Context, p auth.Profile) (*auth.User, error) {
	start := time.Now()
	u, err := s.client.CreateAccount(ctx, client.CreateAccountRequest{
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Address:          p.Address,
		City:             p.City,
		State:            p.State,
		PostalCode:       p.PostalCode,
		DateOfBirth:      p.DateOfBirth,
		NationalIDNumber: p.NationalIDNumber,
		Email:            p.Email,
		Password:         p.Password,
	})
	s.observe("create_account", start, err)
	if err != nil {
		return nil, errors.IdentityAPIError("create_account", err)
	}
	if u == nil {
		return nil, nil
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": u.ID,
		"email":   u.Email,
	}).Info("Account created")

	return toUser(u), nil
}

// Authenticate exchanges credentials for a session
func (s *IdentityService) Authenticate(ctx context.Context, c auth.Credentials) (*auth.Session, error) {
	start := time.Now()
	session, err := s.client.CreateSession(ctx, c.Email, c.Password)
	s.observe("authenticate", start, err)
	if err != nil {
		return nil, errors.IdentityAPIError("authenticate", err)
	}
	if session == nil {
		return nil, nil
	}

	out := &auth.Session{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		User:      toUser(session.User),
	}
	if out.User == nil {
		// fall back to the account endpoint when the session answer is bare
		if u, err := s.CurrentUser(ctx, session.Token); err == nil {
			out.User = u
		} else {
			s.logger.WithError(err).Debug("Could not load account for new session")
		}
	}
	return out, nil
}

// CurrentUser returns the account that owns token
func (s *IdentityService) CurrentUser(ctx context.Context, token string) (*auth.User, error) {
	start := time.Now()
	u, err := s.client.WithToken(token).GetCurrentUser(ctx)
	s.observe("current_user", start, err)
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && (apiErr.IsUnauthorized() || apiErr.IsNotFound()) {
			return nil, errors.Unauthorized("Session is no longer valid")
		}
		return nil, errors.IdentityAPIError("current_user", err)
	}
	return toUser(u), nil
}

// SignOut revokes the session behind token
func (s *IdentityService) SignOut(ctx context.Context, token string) error {
	start := time.Now()
	err := s.client.WithToken(token).DeleteCurrentSession(ctx)
	s.observe("sign_out", start, err)
	if err != nil {
		if apiErr, ok := client.AsAPIError(err); ok && apiErr.IsUnauthorized() {
			// already gone upstream
			return nil
		}
		return errors.IdentityAPIError("sign_out", err)
	}
	return nil
}

// Ping checks that the identity provider is reachable
func (s *IdentityService) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.client.Ping(ctx)
	s.observe("ping", start, err)
	if err != nil {
		return errors.IdentityAPIError("ping", err)
	}
	return nil
}

func (s *IdentityService) observe(operation string, start time.Time, err error) {
	metrics.RecordIdentityCall(operation, callStatus(err), time.Since(start))
}

func callStatus(err error) string {
	if err == nil {
		return "ok"
	}
	if apiErr, ok := client.AsAPIError(err); ok {
		return strconv.Itoa(apiErr.StatusCode)
	}
	return "error"
}

func toUser(u *client.User) *auth.User {
	if u == nil {
		return nil
	}
	return &auth.User{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}
