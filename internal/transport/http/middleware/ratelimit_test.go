package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func hit(r http.Handler, ip string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0, 2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.2"))
}

func TestRateLimitGlobal(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(0, 1))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, hit(r, "10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.2"))
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc-123", w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}

func TestRequestID_RejectsMalformed(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := map[string]string{
		"too long":     strings.Repeat("a", 65),
		"space":        "abc 123",
		"control char": "abc\x1b[31m",
		"quote":        `abc"def`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(KeyRequestID, in)
			r.ServeHTTP(w, req)
			got := w.Header().Get(KeyRequestID)
			assert.NotEqual(t, in, got)
			_, err := uuid.Parse(got)
			assert.NoError(t, err)
		})
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "edge-01:req_7.a")
	r.ServeHTTP(w, req)
	assert.Equal(t, "edge-01:req_7.a", w.Header().Get(KeyRequestID))
}
