package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// slogWriter は gorm のログを slog に流します。
// logger が nil の場合は出力時点の slog.Default() を使います。
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...any) {
	l := w.logger
	if l == nil {
		l = slog.Default()
	}
	l.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}

// newGormLogger は警告以上のみを出力する gorm 用ロガーを返します。
// 見つからないレコードはリポジトリが (nil, nil) として扱うため記録しません。
func newGormLogger(w logger.Writer) logger.Interface {
	return logger.New(w, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
