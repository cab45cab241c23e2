package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/restbase/pkg/health"
)

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("no checks is healthy", func(t *testing.T) {
		t.Parallel()
		assert.True(t, health.Run(context.Background(), nil).Healthy())
	})

	t.Run("one failure marks the report unhealthy", func(t *testing.T) {
		t.Parallel()
		report := health.Run(context.Background(), health.Checks{
			"db":    func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("connection refused") },
		})
		assert.False(t, report.Healthy())
		assert.Equal(t, health.StatusHealthy, report.Checks["db"].Status)
		assert.Equal(t, health.Check{Status: health.StatusUnhealthy, Error: "connection refused"}, report.Checks["redis"])
	})

	t.Run("timeout reaches the checks", func(t *testing.T) {
		t.Parallel()
		start := time.Now()
		report := health.Run(context.Background(), health.Checks{
			"slow": func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
		}, health.WithTimeout(20*time.Millisecond))
		assert.False(t, report.Healthy())
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness failure as json", func(t *testing.T) {
		t.Parallel()
		h := health.ReadinessHandler(health.Checks{
			"db": func(context.Context) error { return errors.New("down") },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var report health.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Equal(t, "down", report.Checks["db"].Error)
	})

	t.Run("readiness failure as text", func(t *testing.T) {
		t.Parallel()
		h := health.ReadinessHandler(health.Checks{
			"db": func(context.Context) error { return errors.New("down") },
		})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		assert.Equal(t, "Service Unavailable", rec.Body.String())
	})
}
