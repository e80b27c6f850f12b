package community

import (
	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, tokenAuthentication gin.HandlerFunc, handler Handler) {
	tokenAuthenticationRouter := r.Group("")
	tokenAuthenticationRouter.Use(tokenAuthentication)
	tokenAuthenticationRouter.POST("/communities", handler.Create)
	tokenAuthenticationRouter.GET("/communities", handler.FindAll)
	tokenAuthenticationRouter.GET("/communities/:id", handler.FindById)
	tokenAuthenticationRouter.GET("/communities/:id/members", handler.FindMembers)
	tokenAuthenticationRouter.POST("/communities/:id/join", handler.Join)
	tokenAuthenticationRouter.DELETE("/communities/:id/leave", handler.Leave)
}
