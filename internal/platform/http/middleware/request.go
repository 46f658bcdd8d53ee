package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"account_backend/internal/platform/http/respond"
)

const requestIDHeader = "X-Request-Id"

// RequestID は呼び出し元の X-Request-Id を引き継ぐか、新たに生成します。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Set(respond.ContextRequestID, id)
		c.Next()
	}
}

// RequestLogger はリクエスト完了後に1行のログを出力します。
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path // fallback (e.g. 404)
		}

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(respond.ContextRequestID),
			"client_ip", c.ClientIP(),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			slog.ErrorContext(ctx, "http_request", attrs...)
		case status >= 400:
			slog.WarnContext(ctx, "http_request", attrs...)
		default:
			slog.InfoContext(ctx, "http_request", attrs...)
		}
	}
}
