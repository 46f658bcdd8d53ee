// Package domain はuserフィーチャーのドメインエラーを定義します。
package domain

import "account_backend/internal/shared/apperror"

// ユーザー操作と認証のドメインエラー。
// それぞれ apperror.Kind を持ち、transport 層でステータスコードに対応付けられます。
var (
	// ErrUserNotFound は指定された id のユーザーが存在しないことを示します。
	ErrUserNotFound = apperror.NotFound("User not found")

	// ErrUserAlreadyExists はメールアドレスが登録済みであることを示します。
	ErrUserAlreadyExists = apperror.Conflict("User already exists with this email")

	// ErrEmailInUse は更新で他のユーザーのメールアドレスを使おうとしたことを示します。
	ErrEmailInUse = apperror.Conflict("Email already in use")

	// ErrInvalidCredentials は未登録のメールアドレスとパスワード不一致の
	// どちらでも返されます。
	ErrInvalidCredentials = apperror.Unauthorized("Invalid credentials")
)
