package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/sign-{mode}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/sign-{mode}", "418"))

	req := httptest.NewRequest(http.MethodGet, "/sign-in", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/sign-{mode}", "418"))
	if after-before != 1 {
		t.Errorf("requests_total delta = %v, want 1", after-before)
	}
}

func TestRecordAuthSubmission(t *testing.T) {
	c := authSubmissionsTotal.WithLabelValues("sign-in", "navigated")
	before := testutil.ToFloat64(c)

	RecordAuthSubmission("sign-in", "navigated")

	if got := testutil.ToFloat64(c) - before; got != 1 {
		t.Errorf("submissions_total delta = %v, want 1", got)
	}
}

func TestSubmissionInFlightGauge(t *testing.T) {
	base := testutil.ToFloat64(authSubmissionsInFlight)

	SubmissionStarted()
	if got := testutil.ToFloat64(authSubmissionsInFlight); got != base+1 {
		t.Errorf("in flight = %v, want %v", got, base+1)
	}
	SubmissionFinished()
	if got := testutil.ToFloat64(authSubmissionsInFlight); got != base {
		t.Errorf("in flight = %v, want %v", got, base)
	}
}

func TestHandler_ExposesNamespace(t *testing.T) {
	RecordValidationFailure("sign-up", "postalCode")

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if !strings.Contains(rec.Body.String(), "horizon_authform_validation_failures_total") {
		t.Error("metrics output missing horizon_authform_validation_failures_total")
	}
}
