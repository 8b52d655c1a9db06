package service

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceExposesUpstreamAndScreenMetrics(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/api/v1/workspace/distribution", 200, 5*time.Millisecond)
	m.ObserveUpstreamCall("PATCH", "/user/distributions/:id/status", 200, 10*time.Millisecond)
	m.SetOpenScreens(3)
	m.IncToggleRejected()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `upstream_requests_total{method="PATCH",route="/user/distributions/:id/status",status="200"} 1`)
	assert.Contains(t, text, "open_screens 3")
	assert.Contains(t, text, "distribution_toggles_rejected_total 1")
	assert.Contains(t, text, "http_requests_total")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveUpstreamCall("GET", "/", 200, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.SetOpenScreens(1)
	assert.Equal(t, 0.0, m.CacheHitRatio())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 503, rec.Code)
}
