package chat

import (
	"context"
	"errors"
	"net/http"

	"github.com/tribeshub/backend/internal/handler"
	"github.com/tribeshub/backend/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewHandler(service chatService) Handler {
	return Handler{service}
}

type Handler struct {
	service chatService
}

type chatService interface {
	SendMessage(ctx context.Context, sender *model.User, scope Scope, body string, attachment *Attachment) (*model.ChatMessage, error)
	GetMessages(ctx context.Context, viewer *model.User, scope Scope) ([]model.ChatMessage, error)
	GetConversations(ctx context.Context, viewer *model.User) (*Conversations, error)
}

func (h Handler) GetConversations(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	conversations, err := h.service.GetConversations(c.Request.Context(), user)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

func (h Handler) GetMessages(c *gin.Context) {
	scope, ok := scopeFromPath(c)
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	messages, err := h.service.GetMessages(c.Request.Context(), user, scope)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage accepts a multipart form with an optional "message" text field
// and an optional "image" file field.
func (h Handler) SendMessage(c *gin.Context) {
	scope, ok := scopeFromPath(c)
	if !ok {
		return
	}

	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var attachment *Attachment
	fileHeader, err := c.FormFile("image")
	if err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			_ = c.Error(err)
			return
		}
		defer func() {
			_ = file.Close()
		}()
		attachment = &Attachment{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Body:        file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		_ = c.Error(err)
		return
	}

	message, err := h.service.SendMessage(c.Request.Context(), user, scope, c.PostForm("message"), attachment)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

func scopeFromPath(c *gin.Context) (Scope, bool) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return Scope{}, false
	}

	scope, err := ParseScope(c.Param("type"), id)
	if err != nil {
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return Scope{}, false
	}

	return scope, true
}
