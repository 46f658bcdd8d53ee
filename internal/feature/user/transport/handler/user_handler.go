// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/transport/http/dto"
	"account_backend/internal/platform/http/respond"
	jwtmw "account_backend/internal/platform/jwt"
)

// notFoundLabel はユーザーが見つからない場合のエラーラベルです。
const notFoundLabel = "User Not Found"

// UserUsecase はハンドラーが依存するユーザー操作を定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type UserUsecase interface {
	GetAllUsers(ctx context.Context) ([]entity.User, error)
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserHandler はユーザー CRUD の HTTP リクエストを処理します。
type UserHandler struct {
	uc UserUsecase
	// true の場合、ロールの付与・変更は admin のみ
	restrictRoles bool
}

// UserHandlerOption は UserHandler の設定を変更します。
type UserHandlerOption func(*UserHandler)

// WithAdminOnlyRoleChanges はロールの指定を管理者のみに制限します。
// ルートは AuthRequired の後段で動作する必要があります。
func WithAdminOnlyRoleChanges() UserHandlerOption {
	return func(h *UserHandler) { h.restrictRoles = true }
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(uc UserUsecase, opts ...UserHandlerOption) *UserHandler {
	h := &UserHandler{uc: uc}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// roleChangeAllowed は呼び出し元が role を設定できるかどうかを返します。
func (h *UserHandler) roleChangeAllowed(c *gin.Context, role *string) bool {
	if !h.restrictRoles || role == nil || *role == "" {
		return true
	}
	return jwtmw.HasRole(c, entity.RoleAdmin)
}

// List は GET /api/users を処理します。
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.uc.GetAllUsers(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, "Users retrieved successfully", dto.NewUserListRes(users))
}

// Get は GET /api/users/:id を処理します。
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.uc.GetUserByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.ResourceError(c, err, notFoundLabel)
		return
	}
	respond.OK(c, http.StatusOK, "User retrieved successfully", dto.NewUserRes(user))
}

// Create は POST /api/users を処理します。
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserReq
	if !respond.Bind(c, &req) {
		return
	}
	if req.Role != entity.RoleUser && !h.roleChangeAllowed(c, &req.Role) {
		jwtmw.Forbid(c)
		return
	}

	user, err := h.uc.CreateUser(c.Request.Context(), req.ToEntity())
	if err != nil {
		respond.Error(c, err)
		return
	}

	slog.Info("user created", "user_id", user.ID)
	respond.OK(c, http.StatusCreated, "User created successfully", dto.NewUserRes(user))
}

// Update は PUT /api/users/:id を部分更新として処理します。
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserReq
	if !respond.Bind(c, &req) {
		return
	}
	if !h.roleChangeAllowed(c, req.Role) {
		jwtmw.Forbid(c)
		return
	}

	user, err := h.uc.UpdateUser(c.Request.Context(), c.Param("id"), req.ToPatch())
	if err != nil {
		respond.ResourceError(c, err, notFoundLabel)
		return
	}

	slog.Info("user updated", "user_id", user.ID)
	respond.OK(c, http.StatusOK, "User updated successfully", dto.NewUserRes(user))
}

// Delete は DELETE /api/users/:id を処理します。
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.uc.DeleteUser(c.Request.Context(), id); err != nil {
		respond.ResourceError(c, err, notFoundLabel)
		return
	}

	slog.Info("user deleted", "user_id", id)
	respond.OK(c, http.StatusOK, "User deleted successfully", gin.H{})
}
