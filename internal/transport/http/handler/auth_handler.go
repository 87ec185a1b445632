package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/internal/service"
	mdw "github.com/niranjcn/ConfessIt/internal/transport/http/middleware"
)

type AuthHandler struct {
	users *service.UserService
}

func NewAuthHandler(users *service.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type RegisterReq struct {
	Username   string `json:"username" binding:"required"`
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	Gender     string `json:"gender"`
	Semester   string `json:"semester"`
	Department string `json:"department"`
}

type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AdminLoginReq struct {
	Password string `json:"password" binding:"required"`
}

type SessionResp struct {
	Token string       `json:"token"`
	Role  domain.Role  `json:"role"`
	User  *domain.User `json:"user,omitempty"`
}

type AdminFlag struct {
	IsAdmin bool `json:"isAdmin"`
}

func (h *AuthHandler) Register(c *gin.Context, in *RegisterReq) (*domain.User, error) {
	return h.users.Register(c.Request.Context(), service.RegisterInput{
		Username:   in.Username,
		Email:      in.Email,
		Password:   in.Password,
		Gender:     in.Gender,
		Semester:   in.Semester,
		Department: in.Department,
	})
}

func (h *AuthHandler) Login(c *gin.Context, in *LoginReq) (SessionResp, error) {
	s, err := h.users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		return SessionResp{}, err
	}
	return SessionResp{Token: s.Token, Role: s.Role, User: s.User}, nil
}

func (h *AuthHandler) AdminLogin(c *gin.Context, in *AdminLoginReq) (SessionResp, error) {
	s, err := h.users.AdminLogin(c.Request.Context(), in.Password)
	if err != nil {
		return SessionResp{}, err
	}
	return SessionResp{Token: s.Token, Role: s.Role}, nil
}

// CheckAdmin answers for any authenticated caller; the role is looked up,
// not read from the token.
func (h *AuthHandler) CheckAdmin(c *gin.Context, _ *struct{}) (AdminFlag, error) {
	role, err := h.users.ResolveRole(c.Request.Context(), mdw.UserID(c))
	if err != nil {
		return AdminFlag{}, err
	}
	return AdminFlag{IsAdmin: role == domain.RoleAdmin}, nil
}

// AdminCheck sits behind RequireAdmin, so reaching it is the answer.
func (h *AuthHandler) AdminCheck(_ *gin.Context, _ *struct{}) (AdminFlag, error) {
	return AdminFlag{IsAdmin: true}, nil
}

func (h *AuthHandler) UserPanel(c *gin.Context, _ *struct{}) (*service.Profile, error) {
	return h.users.Profile(c.Request.Context(), mdw.UserID(c))
}

func (h *AuthHandler) Refresh(c *gin.Context, _ *struct{}) (SessionResp, error) {
	s, err := h.users.Refresh(c.Request.Context(), mdw.Token(c))
	if err != nil {
		return SessionResp{}, err
	}
	return SessionResp{Token: s.Token, Role: s.Role}, nil
}
