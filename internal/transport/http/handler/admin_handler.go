package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/niranjcn/ConfessIt/internal/service"
)

type AdminHandler struct {
	users *service.UserService
}

func NewAdminHandler(users *service.UserService) *AdminHandler {
	return &AdminHandler{users: users}
}

// ListUsers returns every account with its derived role; hashes never leave
// the service layer.
func (h *AdminHandler) ListUsers(c *gin.Context, _ *struct{}) ([]service.Profile, error) {
	return h.users.ListUsers(c.Request.Context())
}
