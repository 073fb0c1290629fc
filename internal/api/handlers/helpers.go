package handlers

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
)

// IdentityProvider is everything the web shell needs from the identity service
type IdentityProvider interface {
	auth.Identity
	CurrentUser(ctx context.Context, token string) (*auth.User, error)
	SignOut(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

// redirectNavigator records where a successful submission wants to go so the
// handler can answer with a redirect
type redirectNavigator struct {
	route string
}

func (n *redirectNavigator) Navigate(_ context.Context, route string) {
	n.route = route
}

// formRun is the result of driving one controller through a submission
type formRun struct {
	controller *authform.Controller
	outcome    authform.Outcome
	navigateTo string
}

// session returns the session of a successful sign-in, or nil
func (f formRun) session() *auth.Session {
	if f.navigateTo == "" || f.outcome.Result == nil {
		return nil
	}
	return f.outcome.Result.Session
}

// runForm mounts a controller for one request and submits values through it
func runForm(ctx context.Context, mode auth.Mode, values authform.Values, identity auth.Identity, policy authform.ErrorPolicy, log *logger.Logger) formRun {
	nav := &redirectNavigator{}
	submitter := authform.NewSubmitter(identity, nav, log)
	ctrl := authform.New(mode, submitter,
		authform.WithErrorPolicy(policy),
		authform.WithLogger(log),
	)

	outcome := ctrl.ValidateAndSubmit(ctx, values)
	return formRun{controller: ctrl, outcome: outcome, navigateTo: nav.route}
}

// schemaValues keeps only the inputs the mode's schema knows about
func schemaValues(mode auth.Mode, get func(string) string) authform.Values {
	schema := authform.BuildSchema(mode)
	values := make(authform.Values, len(schema.Fields()))
	for _, f := range schema.Fields() {
		values[f.Name] = get(f.Name)
	}
	return values
}

func formValues(mode auth.Mode, form url.Values) authform.Values {
	return schemaValues(mode, form.Get)
}

func mapValues(mode auth.Mode, m map[string]string) authform.Values {
	return schemaValues(mode, func(name string) string { return m[name] })
}

func isSecure(r *http.Request, forced bool) bool {
	return forced || r.TLS != nil
}
