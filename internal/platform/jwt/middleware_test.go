package jwtmw

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_backend/internal/feature/user/domain/entity"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type lookupFunc func(ctx context.Context, id string) (*entity.User, error)

func (f lookupFunc) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return f(ctx, id)
}

func existingUser(role string) lookupFunc {
	return func(ctx context.Context, id string) (*entity.User, error) {
		return &entity.User{ID: id, Role: role}, nil
	}
}

func runMiddleware(t *testing.T, header string, users UserLookup) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		c.Request.Header.Set("Authorization", header)
	}

	AuthRequired(NewManager("test-secret", time.Hour), users)(c)
	return c, w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Success bool   `json:"success"`
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, w.Code, body.Code)
	return body.Message
}

// TestAuthRequired_MissingToken はトークンがない場合に401が返されることを検証します。
func TestAuthRequired_MissingToken(t *testing.T) {
	t.Parallel()

	for _, header := range []string{"", "Bearer ", "Bearer    "} {
		c, w := runMiddleware(t, header, existingUser("user"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.True(t, c.IsAborted())
		assert.Equal(t, MsgNoToken, messageOf(t, w))
	}
}

// TestAuthRequired_InvalidToken は不正なトークン（改ざん・期限切れ等）で401が返されることを検証します。
func TestAuthRequired_InvalidToken(t *testing.T) {
	t.Parallel()

	wrongSecret, _ := NewManager("wrong-secret", time.Hour).GenerateToken("u-1", "user")

	tests := []struct {
		name   string
		header string
	}{
		{"malformed token", "Bearer not.a.valid.token"},
		{"random string", "Bearer randomstring"},
		{"wrong secret", "Bearer " + wrongSecret},
		{"basic auth", "Basic dXNlcjpwYXNz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, w := runMiddleware(t, tt.header, existingUser("user"))

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.True(t, c.IsAborted())
			assert.Equal(t, MsgInvalidToken, messageOf(t, w))
		})
	}
}

// TestAuthRequired_UserGone はトークンのユーザーが削除済みの場合に401が返されることを検証します。
func TestAuthRequired_UserGone(t *testing.T) {
	t.Parallel()

	token, _ := NewManager("test-secret", time.Hour).GenerateToken("u-1", "user")
	gone := lookupFunc(func(ctx context.Context, id string) (*entity.User, error) { return nil, nil })

	c, w := runMiddleware(t, "Bearer "+token, gone)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, c.IsAborted())
	assert.Equal(t, MsgUserNotFound, messageOf(t, w))
}

// TestAuthRequired_LookupError はリポジトリエラー時も401で拒否されることを検証します。
func TestAuthRequired_LookupError(t *testing.T) {
	t.Parallel()

	token, _ := NewManager("test-secret", time.Hour).GenerateToken("u-1", "user")
	failing := lookupFunc(func(ctx context.Context, id string) (*entity.User, error) {
		return nil, errors.New("db down")
	})

	_, w := runMiddleware(t, "Bearer "+token, failing)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, MsgInvalidToken, messageOf(t, w))
}

// TestAuthRequired_ValidToken は有効なトークンでコンテキストにIDとロールが設定されることを検証します。
func TestAuthRequired_ValidToken(t *testing.T) {
	t.Parallel()

	// トークンは "user" だが保存済みレコードが優先される
	token, _ := NewManager("test-secret", time.Hour).GenerateToken("u-42", "user")

	c, w := runMiddleware(t, "Bearer "+token, existingUser("admin"))

	require.False(t, c.IsAborted(), "response: %s", w.Body.String())
	ident, ok := IdentityFrom(c)
	require.True(t, ok)
	assert.Equal(t, Identity{ID: "u-42", Role: "admin"}, ident)
}

// TestRequireRole はロールによるアクセス制御を検証します。
func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setIdent   bool
		role       string
		wantStatus int
	}{
		{"admin allowed", true, "admin", http.StatusOK},
		{"user forbidden", true, "user", http.StatusForbidden},
		{"no identity", false, "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := gin.New()
			r.GET("/", func(c *gin.Context) {
				if tt.setIdent {
					c.Set(ContextUserID, "u-1")
					c.Set(ContextUserRole, tt.role)
				}
				c.Next()
			}, RequireRole(entity.RoleAdmin), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

// TestHasRole は認証済みの識別情報からロールを判定できることを検証します。
func TestHasRole(t *testing.T) {
	t.Parallel()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, HasRole(c, entity.RoleAdmin), "no identity")

	c.Set(ContextUserID, "u-1")
	c.Set(ContextUserRole, entity.RoleUser)
	assert.False(t, HasRole(c, entity.RoleAdmin))
	assert.True(t, HasRole(c, entity.RoleUser))
}
