package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pratik-mahalle/horizon/internal/pkg/errors"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/pkg/metrics"
	"github.com/pratik-mahalle/horizon/internal/pkg/utils"
)

const (
	submitKeyPrefix = "horizon:rl:submit:"
	submitWindow    = time.Minute
	maxSubmitBody   = 64 << 10
)

// SubmitLimit caps auth form submissions per email, or per client IP when the
// body carries no email. It is a no-op without Redis and fails open on Redis
// errors so the form keeps working when the cache is down.
func SubmitLimit(cache *redis.Client, maxPerMin int, log *logger.Logger) func(http.Handler) http.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	if log == nil {
		log = logger.Discard()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cache == nil || r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			key := submitKeyPrefix + submitSubject(r)
			ctx := r.Context()

			cnt, err := cache.Incr(ctx, key).Result()
			if err != nil {
				log.WithError(err).Warn("Submit limiter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if cnt == 1 {
				cache.Expire(ctx, key, submitWindow)
			}

			if cnt > int64(maxPerMin) {
				metrics.RecordRateLimited("submit")
				if ttl, err := cache.TTL(ctx, key).Result(); err == nil && ttl > 0 {
					w.Header().Set("Retry-After", formatSeconds(ttl))
				}
				utils.WriteError(w, errors.RateLimited("Too many attempts, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// submitSubject returns the lower-cased email of the submission, reading it
// from either a JSON or a form body, and falls back to the client IP. Only
// the first maxSubmitBody bytes are inspected; the full body is handed on.
func submitSubject(r *http.Request) string {
	if r.Body == nil {
		return "ip:" + ClientIP(r)
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxSubmitBody))
	r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
	if err != nil {
		return "ip:" + ClientIP(r)
	}

	var email string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var payload struct {
			Email string `json:"email"`
		}
		if json.Unmarshal(body, &payload) == nil {
			email = payload.Email
		}
	} else if values, err := url.ParseQuery(string(body)); err == nil {
		email = values.Get("email")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "ip:" + ClientIP(r)
	}
	return "email:" + email
}

func formatSeconds(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
