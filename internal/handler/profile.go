package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-chat/internal/persona"
)

// ProfileHandler 个人资料处理器
type ProfileHandler struct {
	persona *persona.Persona
}

// NewProfileHandler 创建个人资料处理器
func NewProfileHandler(p *persona.Persona) *ProfileHandler {
	return &ProfileHandler{persona: p}
}

// Profile 公开个人资料
// @Summary      个人资料
// @Description  返回对话人设的公开资料，供前端展示。
// @Tags         系统
// @Produce      json
// @Success      200  {object}  persona.Profile
// @Router       /api/user_info [get]
func (h *ProfileHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, h.persona.Profile())
}
