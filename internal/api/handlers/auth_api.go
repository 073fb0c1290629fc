package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pratik-mahalle/horizon/internal/api/middleware"
	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
)

const maxAuthBody = 16 << 10

// AuthFormResponse is the JSON rendering of a submission outcome
type AuthFormResponse struct {
	State      authform.State       `json:"state"`
	Errors     authform.FieldErrors `json:"errors"`
	NavigateTo string               `json:"navigateTo,omitempty"`
	NewUser    *auth.User           `json:"newUser,omitempty"`
	Message    string               `json:"message,omitempty"`
}

// AuthAPIHandler exposes the auth form to script clients
type AuthAPIHandler struct {
	identity IdentityProvider
	sessions SessionConfig
	policy   authform.ErrorPolicy
	logger   *logger.Logger
}

// NewAuthAPIHandler creates a new JSON auth handler
func NewAuthAPIHandler(identity IdentityProvider, sessions SessionConfig, policy authform.ErrorPolicy, log *logger.Logger) *AuthAPIHandler {
	return &AuthAPIHandler{
		identity: identity,
		sessions: sessions,
		policy:   policy,
		logger:   log,
	}
}

// SignIn handles JSON sign-in
func (h *AuthAPIHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, auth.ModeSignIn)
}

// SignUp handles JSON sign-up
func (h *AuthAPIHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, auth.ModeSignUp)
}

func (h *AuthAPIHandler) submit(w http.ResponseWriter, r *http.Request, mode auth.Mode) {
	var body map[string]string
	if err := json.NewDecoder(io.LimitReader(r.Body, maxAuthBody)).Decode(&body); err != nil {
		utils.WriteError(w, errors.BadRequest("Invalid request body"))
		return
	}

	run := runForm(r.Context(), mode, mapValues(mode, body), h.identity, h.policy, h.logger)
	middleware.AddLogField(w, "mode", string(mode))
	middleware.AddLogField(w, "form_state", run.outcome.State.String())

	view := run.controller.View()
	resp := AuthFormResponse{
		State:   run.outcome.State,
		Errors:  run.outcome.Errors,
		NewUser: view.NewUser,
		Message: view.Message,
	}

	if len(resp.Errors) > 0 {
		utils.WriteError(w, errors.ValidationError("Validation failed", resp))
		return
	}

	if s := run.session(); s != nil {
		if err := h.sessions.startSession(w, r, s); err != nil {
			h.logger.ErrorWithErr(err, "Failed to mint session cookie")
			utils.WriteError(w, errors.Internal("Failed to start session", err))
			return
		}
		resp.NavigateTo = run.navigateTo
	}

	utils.WriteSuccess(w, http.StatusOK, resp)
}
