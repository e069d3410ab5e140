package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
)

func TestOpsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "lifeline_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	healthy := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("connection refused") }

	t.Run("healthz always ok", func(t *testing.T) {
		r := NewOpsRouter(nil, map[string]Check{"postgres": failing})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("readyz reports failing dependencies", func(t *testing.T) {
		r := NewOpsRouter(nil, map[string]Check{"postgres": healthy, "redis": failing})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), "connection refused")
	})

	t.Run("readyz ok when all checks pass", func(t *testing.T) {
		r := NewOpsRouter(nil, map[string]Check{"postgres": healthy})
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("metrics exposes registry", func(t *testing.T) {
		r := NewOpsRouter(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "lifeline_test_total 1")
	})
}
