package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests no route claimed, so scanners hitting
// random paths cannot grow the series set.
const unmatchedRoute = "unmatched"

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "HTTP requests by surface, route and status"},
		[]string{"surface", "path", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP latency by surface and route",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"surface", "path", "method"},
	)
	httpInFlight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "http_requests_in_flight", Help: "Requests currently being served"},
		[]string{"surface"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency, httpInFlight) }

// Metrics records per-route counters for one surface ("api" or "admin").
// Paths are route templates, never raw URLs, so confession ids stay out of labels.
func Metrics(surface string) gin.HandlerFunc {
	inflight := httpInFlight.WithLabelValues(surface)
	return func(c *gin.Context) {
		start := time.Now()
		inflight.Inc()
		defer inflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		method := c.Request.Method
		httpReqTotal.WithLabelValues(surface, path, method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(surface, path, method).Observe(time.Since(start).Seconds())
	}
}
