package middleware

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"account_backend/internal/platform/http/respond"
)

// Recovery は panic を 500 のレスポンスに変換します。スタックトレースはログにのみ出力します。
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(gin.DefaultErrorWriter, func(c *gin.Context, recovered any) {
		slog.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(respond.ContextRequestID),
		)
		respond.InternalError(c)
	})
}
