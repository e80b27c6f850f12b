package realtime

import (
	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, tokenAuthentication gin.HandlerFunc, handler Handler) {
	router := r.Group("")
	router.Use(tokenAuthentication)
	router.GET("/ws", handler.Subscribe)
}
