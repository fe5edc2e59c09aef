package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-chat/internal/model"
)

// HealthMessage 健康检查返回的固定消息
const HealthMessage = "Chat with Yashaswa backend is running"

// HealthHandler 健康检查处理器
type HealthHandler struct{}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health 健康检查
// @Summary      健康检查
// @Tags         系统
// @Produce      json
// @Success      200  {object}  model.MessageResponse
// @Router       /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.MessageResponse{Message: HealthMessage})
}

// Ready 就绪检查
// @Summary      就绪检查
// @Tags         系统
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /api/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}
