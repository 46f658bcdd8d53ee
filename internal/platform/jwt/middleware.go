package jwtmw

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/platform/http/respond"
)

// AuthRequired が設定するコンテキストキー。
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// ミドルウェアが返すメッセージ。
const (
	MsgNoToken      = "No token, authorization denied"
	MsgInvalidToken = "Token is not valid"
	MsgUserNotFound = "User not found"
	MsgForbidden    = "Insufficient permissions"
)

// TokenVerifier は Bearer トークンを検証します。
type TokenVerifier interface {
	VerifyToken(token string) (*Claims, error)
}

// UserLookup はトークンの subject から保存済みユーザーを取得します。
type UserLookup interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

// Identity はリクエストに付与された認証済みの呼び出し元です。
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// AuthRequired は Bearer トークンを検証し、そのユーザーが存在することを
// 確認する Gin ミドルウェアを返します。
func AuthRequired(verifier TokenVerifier, users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Authorization ヘッダーを取得
		tokenStr := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if tokenStr == "" {
			respond.Fail(c, http.StatusUnauthorized, MsgNoToken, respond.LabelUnauthorized, nil)
			return
		}

		// 2. 署名と有効期限を検証
		claims, err := verifier.VerifyToken(tokenStr)
		if err != nil {
			respond.Fail(c, http.StatusUnauthorized, MsgInvalidToken, respond.LabelUnauthorized, nil)
			return
		}

		// 3. トークン発行後に削除されている可能性がある
		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			respond.Fail(c, http.StatusUnauthorized, MsgInvalidToken, respond.LabelUnauthorized, nil)
			return
		}
		if user == nil {
			respond.Fail(c, http.StatusUnauthorized, MsgUserNotFound, respond.LabelUnauthorized, nil)
			return
		}

		// 4. ロールはトークンではなく保存済みレコードから取る
		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, user.Role)
		c.Next()
	}
}

// IdentityFrom は AuthRequired が設定した利用者情報を返します。
func IdentityFrom(c *gin.Context) (Identity, bool) {
	id := c.GetString(ContextUserID)
	if id == "" {
		return Identity{}, false
	}
	return Identity{ID: id, Role: c.GetString(ContextUserRole)}, true
}

// RequireRole は指定されたロールを持たない呼び出し元を拒否します。
// AuthRequired の後に実行する必要があります。
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := IdentityFrom(c)
		if !ok {
			respond.Fail(c, http.StatusUnauthorized, MsgNoToken, respond.LabelUnauthorized, nil)
			return
		}
		for _, r := range roles {
			if ident.Role == r {
				c.Next()
				return
			}
		}
		Forbid(c)
	}
}

// HasRole は認証済みの呼び出し元が role を持つかを返します。
func HasRole(c *gin.Context, role string) bool {
	ident, ok := IdentityFrom(c)
	return ok && ident.Role == role
}

// Forbid は403エンベロープでリクエストを中断します。
func Forbid(c *gin.Context) {
	respond.Fail(c, http.StatusForbidden, MsgForbidden, respond.LabelForbidden, nil)
}
