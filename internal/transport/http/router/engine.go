package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/niranjcn/ConfessIt/internal/core/auth"
	"github.com/niranjcn/ConfessIt/internal/core/config"
	"github.com/niranjcn/ConfessIt/internal/core/server"
	"github.com/niranjcn/ConfessIt/internal/service"
	"github.com/niranjcn/ConfessIt/internal/transport/http/handler"
	mdw "github.com/niranjcn/ConfessIt/internal/transport/http/middleware"
)

// Deps is everything an engine needs; built once in main.
type Deps struct {
	Log         *zap.Logger
	Tokens      *auth.JWTer
	Users       *service.UserService
	Confessions *service.ConfessionService
	Limits      config.Limits
	Server      server.Options
}

type handlers struct {
	auth       *handler.AuthHandler
	confession *handler.ConfessionHandler
	admin      *handler.AdminHandler
}

func newHandlers(d Deps) handlers {
	return handlers{
		auth:       handler.NewAuthHandler(d.Users),
		confession: handler.NewConfessionHandler(d.Confessions),
		admin:      handler.NewAdminHandler(d.Users),
	}
}

// base applies the shared middleware chain and the health and metrics routes.
// Zero limits disable the matching middleware. surface labels the metrics.
func base(d Deps, surface string) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	r := server.NewRouter(d.Server)
	r.Use(mdw.RequestID(), mdw.Recovery(d.Log), mdw.Metrics(surface), mdw.AccessLog(d.Log))

	lim := d.Limits
	if lim.RPS > 0 {
		r.Use(mdw.RateLimit(rate.Limit(lim.RPS), max(1, lim.Burst)))
	}
	if lim.PerIPRPS > 0 {
		r.Use(mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), max(1, lim.PerIPBurst)))
	}
	if lim.Concurrency > 0 {
		r.Use(mdw.ConcurrencyLimit(lim.Concurrency))
	}
	if lim.MaxBodyBytes > 0 {
		r.Use(mdw.MaxBodyBytes(lim.MaxBodyBytes))
	}
	if lim.TimeoutSec > 0 {
		r.Use(mdw.Timeout(time.Duration(lim.TimeoutSec) * time.Second))
	}

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
