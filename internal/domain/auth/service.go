package auth

import "context"

// Identity is the external identity provider the form submits to
type Identity interface {
	// CreateAccount registers a new account from a complete profile
	CreateAccount(ctx context.Context, profile Profile) (*User, error)

	// Authenticate exchanges credentials for a session. A nil session with a
	// nil error means the provider declined without failing.
	Authenticate(ctx context.Context, credentials Credentials) (*Session, error)
}

// Navigator performs the route change that follows a successful sign-in
type Navigator interface {
	Navigate(ctx context.Context, route string)
}
