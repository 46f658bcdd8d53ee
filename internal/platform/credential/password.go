// Package credential はbcryptによるパスワードのハッシュ化と照合を提供します。
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"account_backend/internal/shared/apperror"
)

// MaxPasswordBytes はbcryptが扱える入力の上限バイト数です。
const MaxPasswordBytes = 72

// ErrPasswordTooLong は上限を超えるパスワードに対するバリデーションエラーです。
var ErrPasswordTooLong = apperror.Validation(fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))

// cost はbcryptのコスト係数です。
var cost = bcrypt.DefaultCost

// Hash はplainのbcryptハッシュを返します。
// 72バイトを超える入力は ErrPasswordTooLong になります。
func Hash(plain string) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify はplainが保存済みハッシュと一致するかを返します。
func Verify(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
