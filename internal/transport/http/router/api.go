package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/niranjcn/ConfessIt/internal/transport/http/ez"
	mdw "github.com/niranjcn/ConfessIt/internal/transport/http/middleware"
)

// NewAPIEngine serves the whole surface: public, authenticated and admin.
func NewAPIEngine(d Deps) *gin.Engine {
	r := base(d, "api")
	h := newHandlers(d)

	pub := ez.New(r.Group(""))
	ez.POST(pub, "/register", http.StatusCreated, h.auth.Register)
	ez.POST(pub, "/login", http.StatusOK, h.auth.Login)
	ez.POST(pub, "/admin/login", http.StatusOK, h.auth.AdminLogin)
	ez.GET(pub, "/confessions", h.confession.List)
	ez.GET(pub, "/confessions/top", h.confession.Top)
	ez.GET(pub, "/leaderboard", h.confession.Top)

	authedGroup := r.Group("", mdw.Authenticate(d.Tokens))
	authed := ez.New(authedGroup)
	ez.GET(authed, "/login/check-admin", h.auth.CheckAdmin)
	ez.GET(authed, "/userpanel", h.auth.UserPanel)
	ez.POST(authed, "/refresh-token", http.StatusOK, h.auth.Refresh)
	ez.POST(authed, "/confessions", http.StatusCreated, h.confession.Create)
	ez.POST(authed, "/confessions/:id/like", http.StatusOK, h.confession.Like)

	admin := ez.New(authedGroup.Group("", mdw.RequireAdmin(d.Users, d.Log)))
	mountAdmin(admin, h)
	ez.DELETE(admin, "/confessions/:id", h.confession.Delete)
	return r
}

func mountAdmin(admin ez.EZ, h handlers) {
	ez.GET(admin, "/admin/check", h.auth.AdminCheck)
	ez.GET(admin, "/admin/confessions", h.confession.AdminList)
	ez.GET(admin, "/admin/users", h.admin.ListUsers)
	ez.DELETE(admin, "/admin/confessions/:id", h.confession.Delete)
}
