package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
)

func setupSubmitLimit(t *testing.T, maxPerMin int) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	// echo the email so the test can check the body survived the limiter
	h := SubmitLimit(cache, maxPerMin, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		_, _ = w.Write([]byte(r.PostForm.Get("email")))
	}))
	return h, mr
}

func postForm(h http.Handler, email string) *httptest.ResponseRecorder {
	body := url.Values{"email": {email}, "password": {"secret1"}}.Encode()
	req := httptest.NewRequest(http.MethodPost, "/sign-in", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "10.0.0.9:1111"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitLimit_PerEmail(t *testing.T) {
	h, mr := setupSubmitLimit(t, 2)

	for i := 0; i < 2; i++ {
		rec := postForm(h, "A@b.com")
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt %d status = %d, want 200", i+1, rec.Code)
		}
		if got := readAll(t, rec.Body); got != "A@b.com" {
			t.Errorf("downstream email = %q, want body preserved", got)
		}
	}

	rec := postForm(h, "a@b.com")
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}

	if rec := postForm(h, "other@b.com"); rec.Code != http.StatusOK {
		t.Errorf("other email status = %d, want 200", rec.Code)
	}

	// window expiry resets the counter
	mr.FastForward(submitWindow)
	if rec := postForm(h, "a@b.com"); rec.Code != http.StatusOK {
		t.Errorf("status after window = %d, want 200", rec.Code)
	}
}

func TestSubmitLimit_JSONBodyAndIPFallback(t *testing.T) {
	h, mr := setupSubmitLimit(t, 5)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", strings.NewReader(`{"email":" Ada@Example.com "}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if !mr.Exists(submitKeyPrefix + "email:ada@example.com") {
		t.Errorf("keys = %v, want email key", mr.Keys())
	}

	postForm(h, "")
	if !mr.Exists(submitKeyPrefix + "ip:10.0.0.9") {
		t.Errorf("keys = %v, want ip key", mr.Keys())
	}
}

func TestSubmitLimit_LargeBodyReachesHandlerIntact(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})

	var got []byte
	h := SubmitLimit(cache, 5, logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = io.ReadAll(r.Body)
	}))

	body := `{"email":"a@b.com","note":"` + strings.Repeat("x", maxSubmitBody+1024) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/sign-in", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if len(got) != len(body) {
		t.Fatalf("handler read %d bytes, want %d", len(got), len(body))
	}
	if string(got) != body {
		t.Error("handler body differs from the submitted body")
	}
}

func TestSubmitLimit_FailsOpen(t *testing.T) {
	h, mr := setupSubmitLimit(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		if rec := postForm(h, "a@b.com"); rec.Code != http.StatusOK {
			t.Errorf("attempt %d status = %d, want 200 with redis down", i+1, rec.Code)
		}
	}
}

func TestSubmitLimit_NilCacheAndGet(t *testing.T) {
	h := SubmitLimit(nil, 1, nil)(okHandler)
	for i := 0; i < 3; i++ {
		if rec := postForm(h, "a@b.com"); rec.Code != http.StatusOK {
			t.Errorf("attempt %d status = %d, want 200 without redis", i+1, rec.Code)
		}
	}

	limited, _ := setupSubmitLimit(t, 1)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		limited.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sign-in", nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %d status = %d, want 200", i+1, rec.Code)
		}
	}
}
