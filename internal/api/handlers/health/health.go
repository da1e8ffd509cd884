package health

import (
	"net/http"
	"runtime"
	"time"

	"recipe-normalizer/internal/core/service"
	"recipe-normalizer/internal/infrastructure/config"
	"recipe-normalizer/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Version    string                 `json:"version"`
	Collection string                 `json:"collection"`
	Runtime    map[string]interface{} `json:"runtime"`
}

// Handler 健康檢查處理器
type Handler struct {
	config  *config.Config
	catalog *service.Catalog
}

// NewHandler 創建健康檢查處理器
func NewHandler(cfg *config.Config, catalog *service.Catalog) *Handler {
	return &Handler{config: cfg, catalog: catalog}
}

// HealthCheck 健康檢查
func (h *Handler) HealthCheck(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.JSON(http.StatusOK, HealthResponse{
		Status:     "ok",
		Timestamp:  time.Now(),
		Version:    h.config.App.Version,
		Collection: h.catalog.Path(),
		Runtime: map[string]interface{}{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]interface{}{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
	})
}

// ReadinessCheck 就緒檢查：集合檔案可讀取才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if _, err := h.catalog.Raw(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
			"input":  common.IsInputError(err),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
