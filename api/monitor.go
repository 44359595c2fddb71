package api

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"matchday/services"
)

// MonitorController 监控控制器
type MonitorController struct {
	DB            *gorm.DB
	NotifyService *services.NotifyService
}

// NewMonitorController 创建监控控制器
func NewMonitorController(db *gorm.DB, notifyService *services.NotifyService) *MonitorController {
	return &MonitorController{
		DB:            db,
		NotifyService: notifyService,
	}
}

// GetSystemStatus 获取系统状态
func (c *MonitorController) GetSystemStatus(ctx *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := gin.H{
		"goroutines": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc":       m.Alloc / 1024 / 1024,      // MB
			"total_alloc": m.TotalAlloc / 1024 / 1024, // MB
			"sys":         m.Sys / 1024 / 1024,        // MB
			"num_gc":      m.NumGC,
		},
	}

	// 数据库连接池状态
	if sqlDB, err := c.DB.DB(); err == nil {
		dbStats := sqlDB.Stats()
		status["database"] = gin.H{
			"open_connections": dbStats.OpenConnections,
			"in_use":           dbStats.InUse,
			"idle":             dbStats.Idle,
		}
	}

	// Kafka通知指标
	if c.NotifyService != nil {
		status["notify"] = c.NotifyService.GetMetrics()
	}

	ctx.JSON(http.StatusOK, status)
}
