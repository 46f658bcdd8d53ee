// Package apperror は各層で共有する構造化エラー型を定義します。
// transport 層はメッセージ文字列ではなく Kind で分岐します。
package apperror

import "errors"

// Kind は transport 層向けのエラー分類です。
type Kind int

const (
	// KindInternal は想定外の失敗です（永続化層の障害、バグなど）。
	KindInternal Kind = iota
	// KindValidation は不正または不足した入力です。
	KindValidation
	// KindUnauthorized は認証情報やトークンの欠落・不正・期限切れです。
	KindUnauthorized
	// KindForbidden は必要なロールを持たない認証済みの呼び出し元です。
	KindForbidden
	// KindNotFound は存在しないエンティティです。
	KindNotFound
	// KindConflict は一意性の違反です。
	KindConflict
)

// String は種別の固定の小文字名を返します。
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error は Kind、クライアントに返せる Message、任意の原因エラーを持ちます。
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New は原因エラーなしの Error を生成します。
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap は err を原因として保持する Error を生成します。
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation は KindValidation のエラーを生成します。
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Unauthorized は KindUnauthorized のエラーを生成します。
func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

// Forbidden は KindForbidden のエラーを生成します。
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// NotFound は KindNotFound のエラーを生成します。
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Conflict は KindConflict のエラーを生成します。
func Conflict(message string) *Error {
	return New(KindConflict, message)
}

// KindOf は err のチェーン内で最初の *Error の Kind を返します。
// 含まれない場合は KindInternal です。
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind は err が kind を持つかどうかを返します。
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf は err のクライアント向けメッセージを返します。
// 型のないエラーは内部情報を漏らさないよう fallback を返します。
func MessageOf(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return fallback
}
