package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/internal/handler"
	"github.com/tribeshub/backend/pkg/model"

	"github.com/gin-gonic/gin"
)

func NewAuthorization(logger *slog.Logger, userService userService) AuthorizationMiddleware {
	return AuthorizationMiddleware{
		logger:      logger,
		userService: userService,
	}
}

type userService interface {
	FindById(ctx context.Context, id uint) (*model.User, error)
}

type AuthorizationMiddleware struct {
	logger      *slog.Logger
	userService userService
}

// RequireAdministrator aborts the request unless the authenticated user holds the
// administrator flag. The flag is re-read from the datastore rather than trusted
// from the token.
func (m AuthorizationMiddleware) RequireAdministrator(c *gin.Context) {
	u, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		c.Abort()
		return
	}

	user, err := m.userService.FindById(c.Request.Context(), u.ID)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.AbortWithError(http.StatusUnauthorized, err)
		} else {
			_ = c.Error(err)
			c.Abort()
		}
		return
	}

	if !user.IsAdministrator() {
		m.logger.ErrorContext(c, "User tried to access administrator restricted endpoint", "user", u.ID)
		_ = c.AbortWithError(http.StatusUnauthorized, errors.New("administrator access denied"))
		return
	}

	c.Next()
}
