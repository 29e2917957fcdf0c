package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "subdesigner-test", "")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer())
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveRequest("/api/tuning", 200, 3*time.Millisecond)
	m.ObserveRequest("/api/tuning", 200, time.Millisecond)
	m.ObserveRequest("/api/tuning", 400, time.Millisecond)
	m.ObserveClassification("usaci", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/tuning", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("/api/tuning", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.classifications.WithLabelValues("usaci", "no_match")))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveClassification("meca", true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `subdesigner_classifications_total{organization="meca",outcome="matched"} 1`), body)
	assert.Contains(t, body, "go_goroutines")
}
