package chat

import (
	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, tokenAuthentication gin.HandlerFunc, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(tokenAuthentication)
	tokenAuthenticationRouter.GET("/conversations", handler.GetConversations)
	tokenAuthenticationRouter.GET("/messages/:type/:id", handler.GetMessages)
	tokenAuthenticationRouter.POST("/send/:type/:id", handler.SendMessage)
}
