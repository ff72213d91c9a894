package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/performance-portal-api/internal/models"
)

func TestMetricsServiceCountersAndSnapshot(t *testing.T) {
	m := NewMetricsService()

	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/me", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTPRequest(http.MethodGet, "/api/v1/me", http.StatusOK, 40*time.Millisecond)
	m.RecordLogin(models.RoleStudent, true)
	m.RecordLogin(models.RoleAdmin, false)
	m.RecordBatchGenerated(models.ProgramGroup)
	m.RecordSessionEdit("skills")
	m.RecordReport("pdf")

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 30.0, snap.AverageRequestDurationMs, 0.001)
	assert.Equal(t, uint64(1), snap.LoginsSucceeded)
	assert.Equal(t, uint64(1), snap.LoginsFailed)
	assert.Equal(t, uint64(1), snap.BatchesGenerated)
	assert.Equal(t, uint64(1), snap.SessionEdits)
	assert.Equal(t, uint64(1), snap.ReportsRendered)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `portal_logins_total{result="success",role="STUDENT"} 1`))
	assert.True(t, strings.Contains(body, `portal_session_batches_generated_total{variant="group"} 1`))
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService

	m.ObserveHTTPRequest(http.MethodGet, "/", http.StatusOK, time.Millisecond)
	m.RecordLogin(models.RoleStudent, true)
	m.RecordReport("csv")
	assert.Equal(t, models.ActivityMetrics{}, m.Snapshot())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
