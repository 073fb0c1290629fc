package authform

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/metrics"
)

// ResultKind classifies how a dispatched request ended
type ResultKind string

// Result kinds
const (
	// ResultNavigated means sign-in returned a session and navigation was requested
	ResultNavigated ResultKind = "navigated"
	// ResultCreated means sign-up created an account
	ResultCreated ResultKind = "created"
	// ResultEmpty means the provider answered without a session or user
	ResultEmpty ResultKind = "empty"
	// ResultFailed means the remote call errored or panicked
	ResultFailed ResultKind = "failed"
)

// Result is the settled outcome of one remote call
type Result struct {
	Kind    ResultKind
	User    *auth.User
	Session *auth.Session
}

// Dispatcher sends a validated request to the identity provider
type Dispatcher interface {
	Submit(ctx context.Context, req auth.Request) Result
}

// DispatcherFunc adapts a function to Dispatcher
type DispatcherFunc func(ctx context.Context, req auth.Request) Result

// Submit implements Dispatcher
func (f DispatcherFunc) Submit(ctx context.Context, req auth.Request) Result {
	return f(ctx, req)
}

type noopNavigator struct{}

func (noopNavigator) Navigate(context.Context, string) {}

// Submitter calls the identity provider and reacts to its answer.
// Remote errors are logged and never returned.
type Submitter struct {
	identity  auth.Identity
	navigator auth.Navigator
	logger    *logger.Logger
}

// NewSubmitter creates a submitter. A nil navigator disables navigation.
func NewSubmitter(identity auth.Identity, nav auth.Navigator, log *logger.Logger) *Submitter {
	if nav == nil {
		nav = noopNavigator{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Submitter{
		identity:  identity,
		navigator: nav,
		logger:    log,
	}
}

// Submit dispatches on the request variant
func (s *Submitter) Submit(ctx context.Context, req auth.Request) Result {
	switch r := req.(type) {
	case auth.SignUp:
		return s.HandleSignUp(ctx, r.Profile)
	case auth.SignIn:
		return s.HandleSignIn(ctx, r.Credentials)
	default:
		s.logger.Errorf("Unsupported auth request %T", req)
		return Result{Kind: ResultFailed}
	}
}

// HandleSignUp creates an account from profile
func (s *Submitter) HandleSignUp(ctx context.Context, profile auth.Profile) (res Result) {
	defer s.settle(auth.ModeSignUp, profile.Email, &res)

	user, err := s.identity.CreateAccount(ctx, profile)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"mode":  auth.ModeSignUp,
			"email": profile.Email,
		}).Warn("Account creation failed")
		return Result{Kind: ResultFailed}
	}
	if user == nil {
		return Result{Kind: ResultEmpty}
	}

	s.logger.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("Account created")

	return Result{Kind: ResultCreated, User: user}
}

// HandleSignIn authenticates credentials and navigates home on a session
func (s *Submitter) HandleSignIn(ctx context.Context, credentials auth.Credentials) (res Result) {
	defer s.settle(auth.ModeSignIn, credentials.Email, &res)

	session, err := s.identity.Authenticate(ctx, credentials)
	if err != nil {
		s.logger.WithError(err).WithFields(map[string]interface{}{
			"mode":  auth.ModeSignIn,
			"email": credentials.Email,
		}).Warn("Authentication failed")
		return Result{Kind: ResultFailed}
	}
	if session == nil {
		s.logger.WithFields(map[string]interface{}{
			"email": credentials.Email,
		}).Debug("Authentication returned no session")
		return Result{Kind: ResultEmpty}
	}

	s.navigator.Navigate(ctx, auth.HomeRoute)

	return Result{Kind: ResultNavigated, Session: session, User: session.User}
}

// settle turns a panic from the identity provider into ResultFailed and records the result
func (s *Submitter) settle(mode auth.Mode, email string, res *Result) {
	if r := recover(); r != nil {
		s.logger.WithFields(map[string]interface{}{
			"mode":  mode,
			"email": email,
			"panic": fmt.Sprint(r),
		}).Error("Identity provider call panicked")
		*res = Result{Kind: ResultFailed}
	}
	metrics.RecordAuthSubmission(string(mode), string(res.Kind))
}
