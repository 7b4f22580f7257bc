package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewMetricsIsolated(t *testing.T) {
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	}, "each collector owns its registry")
}

func TestRecordOutcome(t *testing.T) {
	m := NewMetrics()
	m.RecordOutcome("paste", "completed")
	m.RecordOutcome("paste", "completed")
	m.RecordOutcome("paste", "failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.TransferOutcomes.WithLabelValues("paste", "completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransferOutcomes.WithLabelValues("paste", "failed")))
}

func TestJobLifecycle(t *testing.T) {
	m := NewMetrics()
	m.JobStarted("size_scan")
	m.JobStarted("size_scan")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.JobsActive.WithLabelValues("size_scan")))

	m.JobFinished("size_scan", "cancelled")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsActive.WithLabelValues("size_scan")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.JobsTotal.WithLabelValues("size_scan", "cancelled")))

	m.AddScannedBytes(4096)
	m.AddScannedBytes(-1)
	assert.Equal(t, 4096.0, testutil.ToFloat64(m.ScannedBytes))
}

func TestMiddlewareUsesRouteTemplate(t *testing.T) {
	m := NewMetrics()
	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/sessions/:id", "200")))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "filecore_http_requests_total"))
}

func TestTimerNil(t *testing.T) {
	var timer *Timer
	assert.NotPanics(t, timer.Stop)

	m := NewMetrics()
	NewTimer(m, "archive").Stop()
	assert.Equal(t, 1, testutil.CollectAndCount(m.OperationDuration))
}
