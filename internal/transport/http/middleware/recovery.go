package middleware

import (
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "github.com/niranjcn/ConfessIt/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with the generic 500 body.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(resp.CodeServerError, resp.Error(resp.CodeServerError, resp.KindInternal, "internal error"))
	})
}
