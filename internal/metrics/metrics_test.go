package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Delete("/delete/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodDelete, "/delete/{id}", "404"))

	for _, id := range []string{"a", "b"} {
		req := httptest.NewRequest(http.MethodDelete, "/delete/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodDelete, "/delete/{id}", "404"))
	assert.Equal(t, before+2, after)
}

func TestOutcomeCounters(t *testing.T) {
	before := testutil.ToFloat64(Mirrors.WithLabelValues("imaging", "ok"))
	Mirrors.WithLabelValues("imaging", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(Mirrors.WithLabelValues("imaging", "ok")))
}
