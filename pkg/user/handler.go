package user

import (
	"context"
	"net/http"

	"github.com/tribeshub/backend/pkg/model"

	"github.com/tribeshub/backend/internal/errdef"
	"github.com/tribeshub/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/tribeshub/backend/pkg/config"
	"github.com/tribeshub/backend/pkg/token"
)

const searchLimit = 20

func NewHandler(config config.Config, userService userService, tokenService tokenService) Handler {
	return Handler{
		config,
		userService,
		tokenService,
	}
}

type Handler struct {
	config       config.Config
	userService  userService
	tokenService tokenService
}

type userService interface {
	SignUp(ctx context.Context, name, username, email, password, bio string) (*model.User, error)
	FindById(ctx context.Context, id uint) (*model.User, error)
	Search(ctx context.Context, query string, limit int) ([]model.User, error)
}

type tokenService interface {
	GetTokens(user *model.User, previousTokenId string) (*token.Tokens, error)
	ValidateRefreshToken(ctx context.Context, tokenString string) (*token.RefreshTokenData, error)
	SignOut(userId uint) error
}

type SignUpRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,gte=8,lte=128"`
	Bio      string `json:"bio" binding:"max=1000"`
}

// SignUp user
func (h Handler) SignUp(c *gin.Context) {
	var request SignUpRequest

	if err := handler.DataBinder(c, &request); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userService.SignUp(c.Request.Context(), request.Name, request.Username, request.Email, request.Password, request.Bio)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// SignIn exchanges basic auth credentials for tokens. The credentials are
// verified by the basic authentication middleware which attaches the user.
func (h Handler) SignIn(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tokens, err := h.tokenService.GetTokens(user, "")
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setCookies(c, tokens)
	c.JSON(http.StatusCreated, tokens)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// RefreshToken rotates the refresh token. The token is read from the
// refreshToken cookie, falling back to the request body.
func (h Handler) RefreshToken(c *gin.Context) {
	refreshTokenString, err := c.Cookie("refreshToken")
	if err != nil {
		var request RefreshTokenRequest
		if err := handler.DataBinder(c, &request); err != nil {
			_ = c.Error(err)
			return
		}
		refreshTokenString = request.RefreshToken
	}
	if refreshTokenString == "" {
		_ = c.Error(errdef.NewBadRequest("refresh token not found"))
		return
	}

	refreshToken, err := h.tokenService.ValidateRefreshToken(c.Request.Context(), refreshTokenString)
	if err != nil {
		_ = c.AbortWithError(http.StatusUnauthorized, err)
		return
	}

	user, err := h.userService.FindById(c.Request.Context(), refreshToken.UserId)
	if err != nil {
		if errdef.IsNotFound(err) {
			_ = c.AbortWithError(http.StatusUnauthorized, err)
		} else {
			_ = c.Error(err)
		}
		return
	}

	tokens, err := h.tokenService.GetTokens(user, refreshToken.ID.String())
	if err != nil {
		_ = c.Error(err)
		return
	}

	h.setCookies(c, tokens)
	c.JSON(http.StatusCreated, tokens)
}

func (h Handler) setCookies(c *gin.Context, tokens *token.Tokens) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("accessToken", tokens.AccessToken, int(tokens.ExpiresIn), "/", h.config.Hostname, true, true)
	c.SetCookie("refreshToken", tokens.RefreshToken, 0, "/refresh", h.config.Hostname, true, true)
}

// Me user
func (h Handler) Me(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	currentUser, err := h.userService.FindById(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, currentUser)
}

// SignOut revokes the user's refresh tokens. Issued access tokens stay valid
// until they expire but can no longer be refreshed.
func (h Handler) SignOut(c *gin.Context) {
	user, err := handler.GetUserFromContext(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := h.tokenService.SignOut(user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.Status(http.StatusOK)
}

// FindById user
func (h Handler) FindById(c *gin.Context) {
	id, ok := handler.GetPathParameter(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.FindById(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Search users by username or name.
func (h Handler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		_ = c.Error(errdef.NewBadRequest("search query is required"))
		return
	}

	users, err := h.userService.Search(c.Request.Context(), query, searchLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}
