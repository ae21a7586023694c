package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yujin9907/cloud-naitive/internal/metrics"
)

func newRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/posts/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))
	return r
}

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	router := newRouter(m)

	for _, path := range []string{"/posts/1", "/posts/2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/posts/:id", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")), 0)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	router := newRouter(m)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/posts/1", http.NoBody))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "board_api_http_requests_total")
	assert.Contains(t, w.Body.String(), "board_api_http_request_duration_seconds")
}

func TestRegisterDBStats(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	m := metrics.NewDefault()
	require.NoError(t, m.RegisterDBStats(db, "boarddb"))
	assert.Error(t, m.RegisterDBStats(db, "boarddb"), "duplicate registration must fail")
}
