package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/palemoky/forhonor-db/internal/api/middleware"
	"github.com/palemoky/forhonor-db/internal/api/rest/handler"
	"github.com/palemoky/forhonor-db/internal/config"
	"github.com/palemoky/forhonor-db/internal/database"
)

// SetupRouter sets up the Gin router with all routes
func SetupRouter(cfg *config.Config, log *zap.Logger, gw *database.Gateway, conn *database.Conn, repo database.RepositoryInterface) *gin.Engine {
	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(gin.Recovery())

	// Rate limiting middleware
	if cfg.RateLimit.Enabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		router.Use(rateLimiter.Middleware())
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", handler.HealthHandler(gw, conn))

		// Table dumps
		tableHandler := handler.NewTableHandler(repo, conn)
		v1.GET("/tables/:name", tableHandler.GetTable)

		// Faction routes
		factionHandler := handler.NewFactionHandler(repo, conn)
		v1.GET("/factions", factionHandler.ListFactions)
		v1.GET("/factions/:name/characters", factionHandler.ListCharacters)
		v1.GET("/factions/:name/best-attack", factionHandler.BestAttack)
		v1.GET("/factions/:name/best-defense", factionHandler.BestDefense)
	}

	return router
}
