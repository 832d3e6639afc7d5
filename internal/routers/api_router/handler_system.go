package api_router

import (
	"time"

	"github.com/haierkeys/ya-note-service/internal/app"
	pkgapp "github.com/haierkeys/ya-note-service/pkg/app"
	"github.com/haierkeys/ya-note-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// SystemHandler 版本与健康检查
type SystemHandler struct {
	*Handler
}

// NewSystemHandler 创建 SystemHandler 实例
func NewSystemHandler(a *app.App) *SystemHandler {
	return &SystemHandler{Handler: NewHandler(a)}
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string  `json:"status"`   // "healthy" 或 "unhealthy"
	Version  string  `json:"version"`  // 服务版本号
	Uptime   float64 `json:"uptime"`   // 运行时间（秒）
	Database string  `json:"database"` // "connected" 或 "error"
}

// Health 检查服务及数据库连接状态
// @Router /api/health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	res := HealthResponse{
		Status:   "healthy",
		Version:  h.App.Version().Version,
		Uptime:   time.Since(h.App.StartTime).Seconds(),
		Database: "connected",
	}

	if err := h.App.DB.WithContext(c.Request.Context()).Exec("SELECT 1").Error; err != nil {
		h.logError(c.Request.Context(), "SystemHandler.Health", err)
		res.Status = "unhealthy"
		res.Database = "error"
		pkgapp.NewResponse(c).ToResponse(code.ErrorServerInternal.WithData(res))
		return
	}

	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(res))
}

// Version 服务端版本
// @Router /api/version [get]
func (h *SystemHandler) Version(c *gin.Context) {
	pkgapp.NewResponse(c).ToResponse(code.Success.WithData(h.App.Version()))
}
