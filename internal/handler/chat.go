package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/model"
	"portfolio-chat/internal/relay"
	"portfolio-chat/internal/server/middleware"
	"portfolio-chat/internal/service"
)

// ChatStarter 对话服务
type ChatStarter interface {
	StartStream(ctx context.Context, req *model.ChatRequest) (*service.ChatSession, error)
}

// ChatHandler 对话处理器
type ChatHandler struct {
	chatService ChatStarter
}

// NewChatHandler 创建对话处理器
func NewChatHandler(chatService ChatStarter) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Chat 流式对话接口
// @Summary      流式对话
// @Description  以 "data: <json>\n\n" 帧流式返回回复。事件顺序: conversation_id -> content* -> end 或 error。
// @Description  流开始后上游出错以 error 事件返回，HTTP 状态码保持 200。
// @Tags         对话
// @Accept       json
// @Produce      plain
// @Param        request  body      model.ChatRequest     true  "对话请求"
// @Success      200      {object}  model.StreamEvent     "事件流（每帧一个事件）"
// @Failure      400      {object}  model.ErrorResponse   "请求参数错误"
// @Failure      500      {object}  model.ErrorResponse   "服务器内部错误"
// @Router       /chat [post]
func (h *ChatHandler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid request body"})
		return
	}

	ctx := c.Request.Context()

	session, err := h.chatService.StartStream(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Message is required"})
			return
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to start chat")
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "Chat failed: " + err.Error()})
		return
	}

	// 流式响应头，X-Accel-Buffering 关闭反向代理缓冲
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// 会话ID与流统计由访问日志统一输出
	c.Set(middleware.ConversationIDKey, session.ConversationID)

	r := relay.New(c.Writer)
	if err := r.Run(ctx, session.ConversationID, session.Open); err != nil {
		_ = c.Error(err)
	}
	c.Set(middleware.StreamStatsKey, r.Stats())
}
