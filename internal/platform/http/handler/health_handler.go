// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"account_backend/internal/platform/http/respond"
)

// Health は /health エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
func Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Server is running"})
	}
}

// Pinger は依存先に到達できるかを確認します。
type Pinger func(ctx context.Context) error

// readinessTimeout は各依存先チェックの上限時間です。
const readinessTimeout = 2 * time.Second

// Readiness は /readyz のハンドラーを返します。いずれかのチェックが失敗している間は 503 を返します。
// checks のキーは依存先の名前です（"storage"、"cache"）。
func Readiness(checks map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")

		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(gin.H, len(checks))
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				slog.WarnContext(ctx, "readiness check failed", "dependency", name, "error", err)
				results[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ready"
		if status != http.StatusOK {
			state = "not ready"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}

// NotFound は一致しないルートに 404 を返します。
func NotFound(c *gin.Context) {
	respond.Fail(c, http.StatusNotFound, "Not Found - "+c.Request.URL.Path, respond.LabelNotFound, nil)
}
