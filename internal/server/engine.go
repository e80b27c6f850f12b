package server

import (
	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"github.com/tribeshub/backend/internal/handler"
	"github.com/tribeshub/backend/internal/middleware"
	"github.com/tribeshub/backend/pkg/health"
)

// NewEngine creates the gin engine with the shared middleware chain. Routes are
// mounted by the individual packages.
func NewEngine(logger *slog.Logger) (*gin.Engine, error) {
	if err := handler.RegisterValidation(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CorrelationID())
	r.Use(sloggin.NewWithConfig(logger, sloggin.Config{
		WithRequestID: true,
	}))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = true
	corsConfig.AddAllowHeaders("authorization")
	r.Use(cors.New(corsConfig))

	r.Use(middleware.ErrorHandler())

	r.GET("/health", health.Health)

	return r, nil
}
