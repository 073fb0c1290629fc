package auth

import "time"

// Mode selects which variant of the auth form is shown and submitted
type Mode string

// Form modes
const (
	ModeSignIn Mode = "sign-in"
	ModeSignUp Mode = "sign-up"
)

// HomeRoute is where a successful sign-in navigates to
const HomeRoute = "/"

// Route returns the page route for the mode
func (m Mode) Route() string {
	return "/" + string(m)
}

// Credentials is the email and password pair used to authenticate
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the full sign-up field set bundled for account creation
type Profile struct {
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

// Credentials returns the profile's login pair
func (p Profile) Credentials() Credentials {
	return Credentials{Email: p.Email, Password: p.Password}
}

// User is an account as returned by the identity provider
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// DisplayName returns the first name, or "Guest" for an anonymous visitor
func (u *User) DisplayName() string {
	if u == nil || u.FirstName == "" {
		return "Guest"
	}
	return u.FirstName
}

// Session is a successful authentication result
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
	User      *User     `json:"user,omitempty"`
}

// Request is one submission of the auth form. It is either SignIn or SignUp.
type Request interface {
	Mode() Mode
	isRequest()
}

// SignIn is the sign-in variant of Request
type SignIn struct {
	Credentials Credentials
}

// SignUp is the sign-up variant of Request
type SignUp struct {
	Profile Profile
}

// Mode implements Request
func (SignIn) Mode() Mode { return ModeSignIn }

// Mode implements Request
func (SignUp) Mode() Mode { return ModeSignUp }

func (SignIn) isRequest() {}
func (SignUp) isRequest() {}
