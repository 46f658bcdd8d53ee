// Package respond は全エンドポイント共通の JSON レスポンス形式を書き込みます。
//
// 成功: {"success": true, "code": <status>, "message": ..., "data": ...}
// 失敗: {"success": false, "code": <status>, "message": ..., "error": <label>}
package respond

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/shared/apperror"
)

// 失敗レスポンスの "error" フィールドに入るラベル。
const (
	LabelBadRequest      = "Bad Request"
	LabelUnauthorized    = "Unauthorized"
	LabelForbidden       = "Forbidden"
	LabelNotFound        = "Not Found"
	LabelTooManyRequests = "Too Many Requests"
	LabelInternal        = "Internal Server Error"
)

// internalMessage は想定外のエラーのメッセージを置き換え、内部情報を漏らしません。
const internalMessage = "Something went wrong"

// ContextRequestID はリクエストIDを保持する gin コンテキストのキーです。
const ContextRequestID = "request_id"

type successBody struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type errorBody struct {
	Success   bool   `json:"success"`
	Code      int    `json:"code"`
	Message   string `json:"message"`
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

// OK は成功レスポンスを書き込みます。
func OK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, successBody{
		Success: true,
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// Fail は失敗レスポンスを書き込んでリクエストを中断します。
func Fail(c *gin.Context, status int, message, label string, details any) {
	c.AbortWithStatusJSON(status, errorBody{
		Success:   false,
		Code:      status,
		Message:   message,
		Error:     label,
		Details:   details,
		RequestID: requestIDFrom(c),
	})
}

// Error は err の apperror.Kind に応じた失敗レスポンスを書き込みます。
func Error(c *gin.Context, err error) {
	ResourceError(c, err, LabelNotFound)
}

// ResourceError は NotFound にリソース固有のラベルを使う Error です。
// 例: "User Not Found"
func ResourceError(c *gin.Context, err error, notFoundLabel string) {
	kind := apperror.KindOf(err)
	status, label := StatusFor(kind)
	if kind == apperror.KindNotFound && notFoundLabel != "" {
		label = notFoundLabel
	}

	if kind == apperror.KindInternal {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", requestIDFrom(c),
		)
	}

	Fail(c, status, apperror.MessageOf(err, internalMessage), label, nil)
}

// StatusFor はエラー種別に対応する HTTP ステータスとラベルを返します。
// Conflict は公開 API の仕様に合わせて 400 を返します。
func StatusFor(kind apperror.Kind) (int, string) {
	switch kind {
	case apperror.KindValidation, apperror.KindConflict:
		return http.StatusBadRequest, LabelBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized, LabelUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden, LabelForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound, LabelNotFound
	default:
		return http.StatusInternalServerError, LabelInternal
	}
}

// InternalError は汎用の 500 レスポンスで中断します。
func InternalError(c *gin.Context) {
	Fail(c, http.StatusInternalServerError, internalMessage, LabelInternal, nil)
}

func requestIDFrom(c *gin.Context) string {
	if s := c.GetString(ContextRequestID); s != "" {
		return s
	}
	return c.GetHeader("X-Request-Id")
}
