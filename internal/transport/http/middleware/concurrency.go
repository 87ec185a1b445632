package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"

	resp "github.com/niranjcn/ConfessIt/internal/transport/http/response"
)

// ConcurrencyLimit caps in-flight requests to protect the stores.
func ConcurrencyLimit(max int64) gin.HandlerFunc {
	sem := semaphore.NewWeighted(max)
	return func(c *gin.Context) {
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.AbortWithStatusJSON(resp.CodeServiceUnavailable, resp.Error(resp.CodeServiceUnavailable, resp.KindBusy, "server busy"))
			return
		}
		defer sem.Release(1)
		c.Next()
	}
}
