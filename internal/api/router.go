package api

import (
	"net/http"
	"time"

	"dish-namer/internal/api/handlers/dishname"
	"dish-namer/internal/api/handlers/health"
	"dish-namer/internal/api/middleware"
	"dish-namer/internal/core/engine"
	"dish-namer/internal/infrastructure/config"
	"dish-namer/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SetupRouter 設置路由
func SetupRouter(cfg *config.Config, eng *engine.Engine) *gin.Engine {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(common.GenerateUUID)))
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}

	// 注入設定與引擎
	router.Use(func(c *gin.Context) {
		c.Set(health.ConfigKey, cfg)
		c.Set(health.EngineKey, eng)
		c.Next()
	})

	// 健康檢查路由
	router.GET("/health", health.HealthCheck)
	router.GET("/ready", health.ReadinessCheck)
	router.GET("/live", health.LivenessCheck)

	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		api.Use(middleware.RateLimit(
			middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window),
			cfg.RateLimit.Window,
		))
	}
	dishname.NewHandler(eng, cfg.App.Debug).Register(api)

	router.NoRoute(func(c *gin.Context) {
		status, body := common.ErrorBody(common.ErrNotFound, cfg.App.Debug)
		c.JSON(status, body)
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)
	return router
}
