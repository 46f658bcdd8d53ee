// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/feature/auth/transport/http/dto"
	"account_backend/internal/feature/auth/usecase"
	"account_backend/internal/feature/user/domain/entity"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/http/respond"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	AuthenticateUser(ctx context.Context, email, password string) (*usecase.AuthResult, error)
	RegisterUser(ctx context.Context, input *entity.User) (*usecase.AuthResult, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
type AuthHandler struct {
	auth AuthUsecase
	// true の場合、公開登録では user 以外のロールを受け付けない
	restrictRoles bool
}

// AuthHandlerOption はAuthHandlerの設定を変更します。
type AuthHandlerOption func(*AuthHandler)

// WithRestrictedRegistrationRoles は公開登録での admin 付与を禁止します。
func WithRestrictedRegistrationRoles() AuthHandlerOption {
	return func(h *AuthHandler) { h.restrictRoles = true }
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, opts ...AuthHandlerOption) *AuthHandler {
	h := &AuthHandler{auth: auth}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はトークンとユーザー情報付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if !respond.Bind(c, &req) {
		slog.Warn("login validation failed", "remote_addr", c.ClientIP())
		return
	}

	res, err := h.auth.AuthenticateUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		slog.Warn("login failed", "error", err, "remote_addr", c.ClientIP())
		respond.Error(c, err)
		return
	}

	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	respond.OK(c, http.StatusOK, "Login successful", dto.NewAuthRes(res))
}

// Register はユーザー登録APIエンドポイントを処理します。
// メール重複時は400を返却し、成功時は201とトークンを返却します。
// ロール制限が有効な場合、user 以外のロール指定は403になります。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if !respond.Bind(c, &req) {
		slog.Warn("register validation failed", "remote_addr", c.ClientIP())
		return
	}
	if h.restrictRoles && req.Role != "" && req.Role != entity.RoleUser {
		slog.Warn("register with privileged role rejected", "role", req.Role, "remote_addr", c.ClientIP())
		jwtmw.Forbid(c)
		return
	}

	res, err := h.auth.RegisterUser(c.Request.Context(), &entity.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		slog.Warn("register failed", "error", err, "remote_addr", c.ClientIP())
		respond.Error(c, err)
		return
	}

	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	respond.OK(c, http.StatusCreated, "User registered successfully", dto.NewAuthRes(res))
}

// Me は認証ミドルウェアが付与した利用者情報を返します。
func (h *AuthHandler) Me(c *gin.Context) {
	ident, ok := jwtmw.IdentityFrom(c)
	if !ok {
		respond.Fail(c, http.StatusUnauthorized, jwtmw.MsgNoToken, respond.LabelUnauthorized, nil)
		return
	}
	respond.OK(c, http.StatusOK, "Authenticated user retrieved successfully", dto.IdentityRes{ID: ident.ID, Role: ident.Role})
}
