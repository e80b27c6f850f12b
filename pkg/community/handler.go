package community

import (
	"context"
	"net/http"

	"github.com/tribeshub/backend/internal/handler"
	"github.com/tribeshub/backend/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(service communityService) Handler {
	return Handler{service}
}

type Handler struct {
	service communityService
}

type communityService interface {
	Create(ctx context.Context, creator *model.User, name string, description string, imageURL string) (*model.Community, error)
	Find(ctx context.Context, id uint) (*model.Community, error)
	FindAll(ctx context.Context) ([]model.Community, error)
	FindMembers(ctx context.Context, id uint) ([]model.User, error)
	Join(ctx context.Context, id uint, user *model.User) error
	Leave(ctx context.Context, id uint, user *model.User) error
}

type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=1000"`
	ImageURL    string `json:"imageUrl" binding:"omitempty,url"`
}

func (h Handler) Create(c *gin.Context) {
	var request CreateCommunityRequest
	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	community, err := h.service.Create(c.Request.Context(), user, request.Name, request.Description, request.ImageURL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, community)
}

func (h Handler) FindAll(c *gin.Context) {
	communities, err := h.service.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, communities)
}

func (h Handler) FindById(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	community, err := h.service.Find(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, community)
}

func (h Handler) FindMembers(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	members, err := h.service.FindMembers(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, members)
}

func (h Handler) Join(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Join(c.Request.Context(), id, user); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusCreated)
}

func (h Handler) Leave(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.service.Leave(c.Request.Context(), id, user); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
