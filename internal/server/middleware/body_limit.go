package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-chat/internal/model"
)

// BodyLimit 请求体大小限制
// Content-Length 超限时直接返回 413；未声明长度的请求体由 http.MaxBytesReader 截断，
// 读取超限时处理器会收到 *http.MaxBytesError
func BodyLimit(limit int64, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: message})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
