package health

import (
	"net/http"
	"runtime"
	"time"

	"dish-namer/internal/core/engine"
	"dish-namer/internal/infrastructure/config"
	"dish-namer/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 路由注入到 gin.Context 的鍵
const (
	ConfigKey = "config"
	EngineKey = "engine"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime"`
	Engine    *engine.Stats          `json:"engine,omitempty"`
}

// StatsProvider 提供引擎統計
type StatsProvider interface {
	Stats() engine.Stats
}

// HealthCheck 健康檢查處理器
func HealthCheck(c *gin.Context) {
	cfg, ok := c.Value(ConfigKey).(*config.Config)
	if !ok {
		common.LogError("Configuration not found in context")
		c.JSON(http.StatusInternalServerError, common.ErrorResponse{
			Code:    common.ErrCodeInternalError,
			Message: "Configuration not found",
		})
		return
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   cfg.App.Version,
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	}
	if eng, ok := c.Value(EngineKey).(StatsProvider); ok {
		stats := eng.Stats()
		response.Engine = &stats
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("path", c.Request.URL.Path),
	)
	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 就緒檢查：引擎已初始化且菜名資料庫有資料
func ReadinessCheck(c *gin.Context) {
	eng, ok := c.Value(EngineKey).(StatsProvider)
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "initializing"})
		return
	}
	if s := eng.Stats().Database; s.Single == 0 && s.PairKeys == 0 && s.TripleKeys == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "empty database"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// LivenessCheck 存活檢查處理器
func LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}
