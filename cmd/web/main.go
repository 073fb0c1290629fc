package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pratik-mahalle/horizon/internal/api/handlers"
	"github.com/pratik-mahalle/horizon/internal/api/middleware"
	"github.com/pratik-mahalle/horizon/internal/api/router"
	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/config"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/services"
	"github.com/pratik-mahalle/horizon/internal/web"
	"github.com/pratik-mahalle/horizon/internal/worker"
	"github.com/pratik-mahalle/horizon/pkg/client"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})

	policy, err := authform.ParseErrorPolicy(cfg.AuthForm.ErrorPolicy)
	if err != nil {
		log.Fatalf("Invalid auth form config: %v", err)
	}

	identity := services.NewIdentityService(client.NewClient(client.Config{
		BaseURL: cfg.Identity.BaseURL,
		APIKey:  cfg.Identity.APIKey,
		Timeout: cfg.Identity.Timeout,
	}), log)

	var cache *redis.Client
	if cfg.Redis.Enabled {
		cache = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(pingCtx).Err(); err != nil {
			log.WithError(err).Warn("Redis unreachable, submit throttling will fail open")
		}
		cancel()
		defer func() {
			if err := cache.Close(); err != nil {
				log.WithError(err).Warn("Failed to close redis")
			}
		}()
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)

	scheduler := worker.NewScheduler(log, 30*time.Second)
	if err := scheduler.Register(worker.TaskRateLimitCleanup, cfg.RateLimit.CleanupSchedule, worker.CleanupTask(limiter)); err != nil {
		log.Fatalf("Failed to schedule rate limit cleanup: %v", err)
	}
	if err := scheduler.Register(worker.TaskIdentityProbe, "@every 1m", worker.ProbeTask(identity, log)); err != nil {
		log.Fatalf("Failed to schedule identity probe: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	views, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Failed to parse templates: %v", err)
	}

	sessions := handlers.SessionConfig{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.Session.Secure,
	}

	h := &router.Handlers{
		Health:  handlers.NewHealthHandler(identity, cache, log),
		Auth:    handlers.NewAuthHandler(identity, sessions, policy, views, log),
		AuthAPI: handlers.NewAuthAPIHandler(identity, sessions, policy, log),
		Home:    handlers.NewHomeHandler(views, log),
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.New(cfg, log, h, router.Deps{Limiter: limiter, Cache: cache}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	srvErrCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":         srv.Addr,
			"environment":  cfg.Server.Environment,
			"identity":     cfg.Identity.BaseURL,
			"error_policy": policy,
			"redis":        cfg.Redis.Enabled,
		}).Info("Horizon web server starting")
		srvErrCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.With("signal", sig.String()).Info("Shutdown signal received")
	case err := <-srvErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.ErrorWithErr(err, "Server error")
			os.Exit(1)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Shutdown error")
		os.Exit(1)
	}

	log.Info("Server exited cleanly")
}
