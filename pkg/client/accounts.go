package client

import (
	"context"
	"net/http"
)

// CreateAccount registers a new account
func (c *Client) CreateAccount(ctx context.Context, req CreateAccountRequest) (*User, error) {
	var user User
	ok, err := c.doRequest(ctx, http.MethodPost, "/v1/accounts", req, &user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &user, nil
}

// CreateSession authenticates with email and password. A nil session with
// a nil error means the provider answered without a session. The client's
// own token is left untouched; use WithToken to act as the new session.
func (c *Client) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	req := CreateSessionRequest{
		Email:    email,
		Password: password,
	}

	var session Session
	ok, err := c.doRequest(ctx, http.MethodPost, "/v1/sessions", req, &session)
	if err != nil {
		return nil, err
	}
	if !ok || session.Token == "" {
		return nil, nil
	}
	return &session, nil
}

// GetCurrentUser retrieves the account behind the current token
func (c *Client) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	ok, err := c.doRequest(ctx, http.MethodGet, "/v1/account", nil, &user)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &APIError{StatusCode: http.StatusNotFound, Message: "account not found"}
	}
	return &user, nil
}

// DeleteCurrentSession signs the current token out
func (c *Client) DeleteCurrentSession(ctx context.Context) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/v1/sessions/current", nil, nil)
	return err
}
