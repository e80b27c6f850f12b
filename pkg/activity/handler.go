package activity

import (
	"context"
	"net/http"
	"strconv"

	"github.com/tribeshub/backend/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(service activityService) Handler {
	return Handler{service}
}

type Handler struct {
	service activityService
}

type activityService interface {
	FindAll(ctx context.Context, entryType string, page int, limit int) ([]*model.ActivityLog, error)
}

// FindAll returns the activity feed, newest first. Administrators only.
func (h Handler) FindAll(c *gin.Context) {
	entryType := c.Query("type")
	page := positiveIntQuery(c, "page", 1)
	limit := positiveIntQuery(c, "limit", 20)

	entries, err := h.service.FindAll(c.Request.Context(), entryType, page, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, entries)
}

func positiveIntQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
