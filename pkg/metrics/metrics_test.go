package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/courses/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/courses/{id}", "418"))

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/courses/"+id, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/courses/{id}", "418"))
	assert.Equal(t, float64(3), after-before)
}

func TestEmailCounters(t *testing.T) {
	before := testutil.ToFloat64(emailFailures.WithLabelValues("welcome"))
	EmailFailed("welcome")
	assert.Equal(t, float64(1), testutil.ToFloat64(emailFailures.WithLabelValues("welcome"))-before)

	sentBefore := testutil.ToFloat64(emailsSent.WithLabelValues("welcome"))
	EmailSent("welcome")
	assert.Equal(t, float64(1), testutil.ToFloat64(emailsSent.WithLabelValues("welcome"))-sentBefore)
}
