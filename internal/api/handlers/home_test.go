package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pratik-mahalle/horizon/internal/api/middleware"
	jwtauth "github.com/pratik-mahalle/horizon/internal/auth"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/testutil"
	"github.com/pratik-mahalle/horizon/internal/web"
)

func TestHomeHandler_Home(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})
	handler := middleware.OptionalSession(testSessions.Secret, testSessions.CookieName)(
		http.HandlerFunc(NewHomeHandler(web.MustNewRenderer(), log).Home),
	)

	token, _, err := jwtauth.MintSession(&auth.Session{
		Token: "tok",
		User:  &auth.User{ID: "u1", FirstName: "Ishaan"},
	}, testSessions.Secret, time.Hour)
	if err != nil {
		t.Fatalf("MintSession() error = %v", err)
	}

	tests := []struct {
		name      string
		cookie    string
		wantName  string
		wantLink  string
		notInBody string
	}{
		{"guest", "", "Guest", `href="/sign-in"`, "Sign out"},
		{"signed in", token, "Ishaan", "Sign out", `href="/sign-up"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testSessions.CookieName, Value: tt.cookie})
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rr.Code)
			}
			body := rr.Body.String()
			if !strings.Contains(body, tt.wantName) || !strings.Contains(body, web.HomeSubtext) {
				t.Errorf("greeting missing %q", tt.wantName)
			}
			if !strings.Contains(body, tt.wantLink) {
				t.Errorf("body missing %q", tt.wantLink)
			}
			if strings.Contains(body, tt.notInBody) {
				t.Errorf("body unexpectedly contains %q", tt.notInBody)
			}
		})
	}
}

func TestHealthHandler(t *testing.T) {
	log := logger.New(logger.Config{Level: "error", Format: "json"})

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	tests := []struct {
		name           string
		pingErr        error
		cache          *redis.Client
		expectedStatus int
		wantRedis      string
	}{
		{"ready with redis", nil, cache, http.StatusOK, "connected"},
		{"ready without redis", nil, nil, http.StatusOK, "disabled"},
		{"identity down", errors.New("dial tcp: refused"), nil, http.StatusServiceUnavailable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity := testutil.NewMockIdentity()
			identity.PingError = tt.pingErr
			handler := NewHealthHandler(identity, tt.cache, log)

			rr := httptest.NewRecorder()
			handler.Readyz(rr, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var response struct {
				Data map[string]string `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Data["redis"] != tt.wantRedis || response.Data["status"] != "ready" {
				t.Errorf("checks = %v", response.Data)
			}
		})
	}

	rr := httptest.NewRecorder()
	NewHealthHandler(testutil.NewMockIdentity(), nil, log).Healthz(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("Healthz status = %d, want 200", rr.Code)
	}
}
