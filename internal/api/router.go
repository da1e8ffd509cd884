package api

import (
	"fmt"
	"net/http"
	"time"

	"recipe-normalizer/internal/api/handlers/health"
	recipeHandler "recipe-normalizer/internal/api/handlers/recipe"
	"recipe-normalizer/internal/api/middleware"
	"recipe-normalizer/internal/core/service"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, catalog *service.Catalog) (*gin.Engine, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog is required")
	}

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New())
	router.Use(middleware.Logger())

	// 前端頁面直接讀取 recipes.json
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window, "/health", "/ready", "/live"))
	}

	healthHandler := health.NewHandler(cfg, catalog)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	recipes := recipeHandler.NewHandler(catalog)
	router.GET("/recipes.json", recipes.HandleCollectionFile)

	api := router.Group("/api/v1")
	{
		api.GET("/recipes", recipes.HandleRecipes)
		api.GET("/ingredients", recipes.HandleIngredients)
	}

	common.LogInfo("Router setup completed",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("collection", catalog.Path()),
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
	)

	return router, nil
}
