package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/horizon/internal/api/middleware"
	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
	"github.com/pratik-mahalle/horizon/internal/web"
)

// AuthHandler serves the sign-in and sign-up pages
type AuthHandler struct {
	identity IdentityProvider
	sessions SessionConfig
	policy   authform.ErrorPolicy
	views    *web.Renderer
	logger   *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	identity IdentityProvider,
	sessions SessionConfig,
	policy authform.ErrorPolicy,
	views *web.Renderer,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		sessions: sessions,
		policy:   policy,
		views:    views,
		logger:   log,
	}
}

// SignInPage renders an empty sign-in form
func (h *AuthHandler) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.show(w, auth.ModeSignIn)
}

// SignUpPage renders an empty sign-up form
func (h *AuthHandler) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.show(w, auth.ModeSignUp)
}

// SignIn handles the posted sign-in form
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, auth.ModeSignIn)
}

// SignUp handles the posted sign-up form
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, auth.ModeSignUp)
}

// SignOut revokes the provider session, clears the cookie and returns to sign-in
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetSession(r); ok {
		if err := h.identity.SignOut(r.Context(), claims.Session); err != nil {
			// the local cookie is cleared regardless
			h.logger.With("user_id", claims.UserID).WithError(err).Warn("Provider sign-out failed")
		}
	}

	h.sessions.endSession(w, r)
	http.Redirect(w, r, auth.ModeSignIn.Route(), http.StatusSeeOther)
}

func (h *AuthHandler) show(w http.ResponseWriter, mode auth.Mode) {
	page := authform.New(mode, nil).Page()
	h.render(w, http.StatusOK, web.PageAuthForm, page)
}

func (h *AuthHandler) submit(w http.ResponseWriter, r *http.Request, mode auth.Mode) {
	if err := r.ParseForm(); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid form body"))
		return
	}

	run := runForm(r.Context(), mode, formValues(mode, r.PostForm), h.identity, h.policy, h.logger)
	middleware.AddLogField(w, "mode", string(mode))
	middleware.AddLogField(w, "form_state", run.outcome.State.String())

	if s := run.session(); s != nil {
		if err := h.sessions.startSession(w, r, s); err != nil {
			h.logger.ErrorWithErr(err, "Failed to mint session cookie")
			utils.WriteError(w, errors.Internal("Failed to start session", err))
			return
		}
		http.Redirect(w, r, run.navigateTo, http.StatusSeeOther)
		return
	}

	page := run.controller.Page()
	status := http.StatusOK
	if len(run.outcome.Errors) > 0 {
		status = http.StatusUnprocessableEntity
	}

	name := web.PageAuthForm
	if page.NewUser != nil {
		name = web.PageLinkAccount
	}
	h.render(w, status, name, page)
}

func (h *AuthHandler) render(w http.ResponseWriter, status int, name string, page authform.Page) {
	if err := h.views.Render(w, status, name, web.AuthFormData{Page: page}); err != nil {
		h.logger.ErrorWithErr(err, "Failed to render page")
		utils.WriteError(w, errors.Internal("Failed to render page", err))
	}
}
