package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/config"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/session"
	"github.com/FACorreiaa/go-checkpoint/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(cfg *config.Config, store session.Store, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SameOriginMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.SecurityMiddleware())

	if err := SetupAssets(r); err != nil {
		return nil, err
	}
	if err := routes.Setup(r, cfg, store, logger); err != nil {
		return nil, err
	}
	return r, nil
}
