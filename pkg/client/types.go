package client

import "time"

// CreateAccountRequest is the sign-up payload
type CreateAccountRequest struct {
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	Address          string `json:"address"`
	City             string `json:"city"`
	State            string `json:"state"`
	PostalCode       string `json:"postalCode"`
	DateOfBirth      string `json:"dateOfBirth"`
	NationalIDNumber string `json:"nationalIdNumber"`
	Email            string `json:"email"`
	Password         string `json:"password"`
}

// CreateSessionRequest is the sign-in payload
type CreateSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is an account held by the identity provider
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is an authenticated session
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user,omitempty"`
}

// HealthResponse is the provider's health answer
type HealthResponse struct {
	Status string `json:"status"`
}
