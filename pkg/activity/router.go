package activity

import (
	"github.com/gin-gonic/gin"
)

func Routes(r *gin.Engine, tokenAuthentication gin.HandlerFunc, requireAdministrator gin.HandlerFunc, handler Handler) {
	router := r.Group("")
	router.Use(tokenAuthentication)
	router.Use(requireAdministrator)
	router.GET("/activities", handler.FindAll)
}
