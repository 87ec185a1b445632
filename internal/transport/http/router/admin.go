package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niranjcn/ConfessIt/internal/transport/http/ez"
	mdw "github.com/niranjcn/ConfessIt/internal/transport/http/middleware"
)

// NewAdminEngine serves only admin login and the admin routes, for a
// listener that is not exposed publicly.
func NewAdminEngine(d Deps) *gin.Engine {
	r := base(d, "admin")
	h := newHandlers(d)

	pub := ez.New(r.Group(""))
	ez.POST(pub, "/admin/login", http.StatusOK, h.auth.AdminLogin)

	admin := ez.New(r.Group("", mdw.Authenticate(d.Tokens), mdw.RequireAdmin(d.Users, d.Log)))
	mountAdmin(admin, h)
	return r
}
