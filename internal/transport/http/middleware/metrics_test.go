package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T) string {
	t.Helper()
	w := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	b, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(b)
}

func TestMetrics_RouteTemplateAndUnmatched(t *testing.T) {
	r := gin.New()
	r.Use(Metrics("mtest"))
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for _, p := range []string{"/things/a1", "/things/b2", "/wp-login.php", "/random/xyz"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	out := scrape(t)
	assert.Contains(t, out, `http_requests_total{method="GET",path="/things/:id",status="204",surface="mtest"} 2`)
	assert.Contains(t, out, `http_requests_total{method="GET",path="unmatched",status="404",surface="mtest"} 2`)
	assert.NotContains(t, out, `path="/things/a1"`)
	assert.NotContains(t, out, `path="/wp-login.php"`)
	assert.Contains(t, out, `http_requests_in_flight{surface="mtest"} 0`)
}

func TestMetrics_InFlightWhileServing(t *testing.T) {
	r := gin.New()
	r.Use(Metrics("mtest-inflight"))
	var during string
	r.GET("/", func(c *gin.Context) {
		during = scrape(t)
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Contains(t, during, `http_requests_in_flight{surface="mtest-inflight"} 1`)
	assert.Contains(t, scrape(t), `http_requests_in_flight{surface="mtest-inflight"} 0`)
}
