// Package jwtmw は HS256 のアクセストークンの発行・検証と、
// 認証が必要なルートを保護する Gin ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultExpiration はアクセストークンの有効期間です。
const DefaultExpiration = 24 * time.Hour

// ErrInvalidToken は検証に失敗したトークンに対して返されます。
var ErrInvalidToken = errors.New("invalid token")

// Claims はトークンのペイロードです。ユーザーID、ロール、登録済みクレームを含みます。
type Claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager はプロセス共通のシークレットでトークンを署名・検証します。
type Manager struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewManager は Manager を生成します。expiration が0以下なら DefaultExpiration を使います。
func NewManager(secret string, expiration time.Duration) *Manager {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Manager{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken は指定ユーザーの署名済みトークンを生成します。
func (m *Manager) GenerateToken(userID, role string) (string, error) {
	now := m.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken は署名（HMAC のみ）と有効期限を検証し、クレームを返します。
func (m *Manager) VerifyToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing id claim", ErrInvalidToken)
	}
	return claims, nil
}
