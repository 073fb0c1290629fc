package handlers

import (
	"net/http"

	"github.com/pratik-mahalle/horizon/internal/api/middleware"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
	"github.com/pratik-mahalle/horizon/internal/web"
)

// HomeHandler serves the landing page sign-in navigates to
type HomeHandler struct {
	views  *web.Renderer
	logger *logger.Logger
}

// NewHomeHandler creates a new home handler
func NewHomeHandler(views *web.Renderer, log *logger.Logger) *HomeHandler {
	return &HomeHandler{
		views:  views,
		logger: log,
	}
}

// Home greets the signed-in user by first name, or a guest
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	var user *auth.User
	claims, signedIn := middleware.GetSession(r)
	if signedIn {
		user = claims.User()
	}

	data := web.HomeData{
		Title:    "Home",
		Name:     user.DisplayName(),
		Subtext:  web.HomeSubtext,
		SignedIn: signedIn,
	}
	if err := h.views.Render(w, http.StatusOK, web.PageHome, data); err != nil {
		h.logger.ErrorWithErr(err, "Failed to render home page")
		utils.WriteError(w, errors.Internal("Failed to render page", err))
	}
}
