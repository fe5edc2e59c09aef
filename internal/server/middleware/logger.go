package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"portfolio-chat/internal/relay"
)

const (
	// ConversationIDKey gin.Context 中的会话ID键，由对话处理器写入
	ConversationIDKey = "conversation_id"
	// StreamStatsKey gin.Context 中的 relay.Stats 键，流结束后由对话处理器写入
	StreamStatsKey = "stream_stats"
)

// Logger 日志中间件
// 对话流请求额外输出会话ID、转发统计以及终止事件类型
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		streamErrs := c.Errors.ByType(gin.ErrorTypePrivate)

		event := log.Info()
		if status >= 400 || len(streamErrs) > 0 {
			event = log.Warn()
		}
		if status >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(RequestIDKey)).
			Int("body_size", c.Writer.Size())

		if conversationID := c.GetString(ConversationIDKey); conversationID != "" {
			event.Str("conversation_id", conversationID)
		}
		if v, ok := c.Get(StreamStatsKey); ok {
			if stats, ok := v.(relay.Stats); ok {
				event.Dict("stream", zerolog.Dict().
					Int("content_events", stats.ContentEvents).
					Int("content_bytes", stats.ContentBytes).
					Str("terminal", string(stats.Terminal)))
			}
		}
		if len(streamErrs) > 0 {
			event.Str("error", streamErrs.String())
		}

		event.Msg("HTTP request")
	}
}
