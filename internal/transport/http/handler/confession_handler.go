package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/niranjcn/ConfessIt/internal/domain"
	"github.com/niranjcn/ConfessIt/internal/service"
	mdw "github.com/niranjcn/ConfessIt/internal/transport/http/middleware"
)

type ConfessionHandler struct {
	svc *service.ConfessionService
}

func NewConfessionHandler(svc *service.ConfessionService) *ConfessionHandler {
	return &ConfessionHandler{svc: svc}
}

type CreateConfessionReq struct {
	Recipient string `json:"recipient" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

type TopReq struct {
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

type LikeResp struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

type DeleteResp struct {
	ID string `json:"id"`
}

// Create stores a confession from the caller. The echo uses the public view.
func (h *ConfessionHandler) Create(c *gin.Context, in *CreateConfessionReq) (domain.Confession, error) {
	cf, err := h.svc.Create(c.Request.Context(), mdw.UserID(c), in.Recipient, in.Message)
	if err != nil {
		return domain.Confession{}, err
	}
	return cf.As(domain.ViewPublic), nil
}

func (h *ConfessionHandler) List(c *gin.Context, _ *struct{}) ([]domain.Confession, error) {
	return h.svc.ListPublic(c.Request.Context())
}

func (h *ConfessionHandler) Top(c *gin.Context, in *TopReq) ([]domain.Confession, error) {
	return h.svc.Leaderboard(c.Request.Context(), in.Limit, domain.ViewPublic)
}

func (h *ConfessionHandler) Like(c *gin.Context, _ *struct{}) (LikeResp, error) {
	cf, err := h.svc.Like(c.Request.Context(), c.Param("id"), mdw.UserID(c))
	if err != nil {
		return LikeResp{}, err
	}
	return LikeResp{ID: cf.ID, Likes: cf.Likes}, nil
}

func (h *ConfessionHandler) AdminList(c *gin.Context, _ *struct{}) ([]domain.Confession, error) {
	return h.svc.ListAll(c.Request.Context())
}

func (h *ConfessionHandler) Delete(c *gin.Context, _ *struct{}) (DeleteResp, error) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		return DeleteResp{}, err
	}
	return DeleteResp{ID: id}, nil
}
