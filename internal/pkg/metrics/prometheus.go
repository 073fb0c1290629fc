package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horizon",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "horizon",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "horizon",
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being served",
		},
	)

	// Auth form metrics
	authSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horizon",
			Subsystem: "authform",
			Name:      "submissions_total",
			Help:      "Auth form submissions that reached the identity provider, by outcome",
		},
		[]string{"mode", "result"},
	)

	authValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horizon",
			Subsystem: "authform",
			Name:      "validation_failures_total",
			Help:      "Field validation failures that blocked a submission",
		},
		[]string{"mode", "field"},
	)

	authSubmissionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "horizon",
			Subsystem: "authform",
			Name:      "submissions_in_flight",
			Help:      "Auth form submissions waiting on the identity provider",
		},
	)

	// Identity provider metrics
	identityCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "horizon",
			Subsystem: "identity",
			Name:      "call_duration_seconds",
			Help:      "Identity provider call duration in seconds",
			Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "status"},
	)

	rateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "horizon",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware returns a middleware that records Prometheus metrics
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		wrapped := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()

		routePattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			routePattern = rctx.RoutePattern()
		}

		status := strconv.Itoa(wrapped.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, routePattern, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, routePattern, status).Observe(duration)
	})
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordAuthSubmission counts a dispatched submission by mode and result
func RecordAuthSubmission(mode, result string) {
	authSubmissionsTotal.WithLabelValues(mode, result).Inc()
}

// RecordValidationFailure counts a field that blocked a submission
func RecordValidationFailure(mode, field string) {
	authValidationFailures.WithLabelValues(mode, field).Inc()
}

// SubmissionStarted marks a submission as waiting on the identity provider
func SubmissionStarted() {
	authSubmissionsInFlight.Inc()
}

// SubmissionFinished undoes SubmissionStarted
func SubmissionFinished() {
	authSubmissionsInFlight.Dec()
}

// RecordIdentityCall records the duration of an identity provider call
func RecordIdentityCall(operation, status string, duration time.Duration) {
	identityCallDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// RecordRateLimited counts a rejected request
func RecordRateLimited(limiter string) {
	rateLimitRejections.WithLabelValues(limiter).Inc()
}
