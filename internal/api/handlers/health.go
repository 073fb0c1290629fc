package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	identity Pinger
	cache    *redis.Client
	logger   *logger.Logger
}

// NewHealthHandler creates a new health handler. cache may be nil when Redis
// is disabled.
func NewHealthHandler(identity Pinger, cache *redis.Client, log *logger.Logger) *HealthHandler {
	return &HealthHandler{
		identity: identity,
		cache:    cache,
		logger:   log,
	}
}

// Healthz reports liveness
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Readyz reports readiness of the identity provider and Redis
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	checks := map[string]string{
		"identity": "connected",
		"redis":    "disabled",
	}
	ready := true

	if err := h.identity.Ping(ctx); err != nil {
		h.logger.ErrorWithErr(err, "Identity provider ping failed")
		checks["identity"] = "unreachable"
		ready = false
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx).Err(); err != nil {
			// the submit limiter fails open, so Redis is reported but not required
			h.logger.WithError(err).Warn("Redis ping failed")
			checks["redis"] = "unreachable"
		} else {
			checks["redis"] = "connected"
		}
	}

	if !ready {
		utils.WriteError(w, errors.ServiceUnavailable("Identity provider unreachable").WithDetails(checks))
		return
	}

	checks["status"] = "ready"
	utils.WriteSuccess(w, http.StatusOK, checks)
}
