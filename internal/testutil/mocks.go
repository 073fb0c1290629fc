package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
)

// MockIdentity is an in-memory identity provider with injectable failures
type MockIdentity struct {
	mu        sync.Mutex
	Users     map[string]*auth.User
	Passwords map[string]string
	Sessions  map[string]*auth.User
	NextID    int

	CreateError  error
	AuthError    error
	SignOutError error
	PingError    error
	// AuthPanic, when non-nil, is raised by Authenticate and CreateAccount
	AuthPanic interface{}
	// NoSession makes Authenticate answer with neither a session nor an error
	NoSession bool

	// Started receives a value when a remote call begins, if non-nil
	Started chan struct{}
	// Release, if non-nil, must be closed or sent on before a call returns
	Release chan struct{}

	AuthCalls    []auth.Credentials
	CreateCalls  []auth.Profile
	SignOutCalls []string
}

// NewMockIdentity creates an empty mock provider
func NewMockIdentity() *MockIdentity {
	return &MockIdentity{
		Users:     make(map[string]*auth.User),
		Passwords: make(map[string]string),
		Sessions:  make(map[string]*auth.User),
		NextID:    1,
	}
}

// AddUser registers an existing account
func (m *MockIdentity) AddUser(u *auth.User, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == "" {
		u.ID = fmt.Sprintf("user-%d", m.NextID)
		m.NextID++
	}
	m.Users[u.Email] = u
	m.Passwords[u.Email] = password
}

func (m *MockIdentity) begin() {
	if m.Started != nil {
		m.Started <- struct{}{}
	}
	if m.Release != nil {
		<-m.Release
	}
	if m.AuthPanic != nil {
		panic(m.AuthPanic)
	}
}

// CreateAccount implements auth.Identity
func (m *MockIdentity) CreateAccount(ctx context.Context, p auth.Profile) (*auth.User, error) {
	m.mu.Lock()
	m.CreateCalls = append(m.CreateCalls, p)
	m.mu.Unlock()

	m.begin()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return nil, m.CreateError
	}
	if _, exists := m.Users[p.Email]; exists {
		return nil, fmt.Errorf("account already exists")
	}

	u := &auth.User{
		ID:        fmt.Sprintf("user-%d", m.NextID),
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		CreatedAt: time.Now(),
	}
	m.NextID++
	m.Users[u.Email] = u
	m.Passwords[u.Email] = p.Password
	return u, nil
}

// Authenticate implements auth.Identity
func (m *MockIdentity) Authenticate(ctx context.Context, c auth.Credentials) (*auth.Session, error) {
	m.mu.Lock()
	m.AuthCalls = append(m.AuthCalls, c)
	m.mu.Unlock()

	m.begin()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.AuthError != nil {
		return nil, m.AuthError
	}
	if m.NoSession {
		return nil, nil
	}

	u, ok := m.Users[c.Email]
	if !ok || m.Passwords[c.Email] != c.Password {
		return nil, fmt.Errorf("invalid credentials")
	}

	token := "session-" + u.ID
	m.Sessions[token] = u
	return &auth.Session{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Hour),
		User:      u,
	}, nil
}

// CurrentUser returns the user owning token
func (m *MockIdentity) CurrentUser(ctx context.Context, token string) (*auth.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.Sessions[token]
	if !ok {
		return nil, fmt.Errorf("session not found")
	}
	return u, nil
}

// SignOut ends the session behind token
func (m *MockIdentity) SignOut(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SignOutCalls = append(m.SignOutCalls, token)
	if m.SignOutError != nil {
		return m.SignOutError
	}
	delete(m.Sessions, token)
	return nil
}

// Ping reports provider health
func (m *MockIdentity) Ping(ctx context.Context) error {
	return m.PingError
}

// AuthCallCount returns the number of Authenticate calls
func (m *MockIdentity) AuthCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.AuthCalls)
}

// CreateCallCount returns the number of CreateAccount calls
func (m *MockIdentity) CreateCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.CreateCalls)
}

// RecordingNavigator remembers every requested route
type RecordingNavigator struct {
	mu     sync.Mutex
	Routes []string
}

// Navigate implements auth.Navigator
func (n *RecordingNavigator) Navigate(ctx context.Context, route string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Routes = append(n.Routes, route)
}

// Count returns the number of navigations
func (n *RecordingNavigator) Count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.Routes)
}

// Last returns the most recent route, or ""
func (n *RecordingNavigator) Last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Routes) == 0 {
		return ""
	}
	return n.Routes[len(n.Routes)-1]
}
