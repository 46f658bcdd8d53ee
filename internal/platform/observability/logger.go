// Package observability は構造化ログ、Prometheus メトリクス、
// OpenTelemetry のトレースを組み立てます。
package observability

import (
	"io"
	"log/slog"
)

// NewLogger はトレース情報付きのロガーを返します。開発環境ではテキスト、それ以外は JSON で出力します。
func NewLogger(env string, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if env == "development" {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if env == "development" {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return slog.New(NewTraceHandler(h))
}
