// Package dto はuserフィーチャーのHTTPトランスポート層のDTOを定義します。
package dto

import (
	"time"

	"account_backend/internal/feature/user/domain/entity"
)

// CreateUserReq は POST /api/users のリクエストボディです。
type CreateUserReq struct {
	Name     string `json:"name" form:"name" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,max=72"`
	Role     string `json:"role" form:"role" binding:"omitempty,oneof=user admin"`
}

// ToEntity はリクエストを新しい User に変換します。
func (r CreateUserReq) ToEntity() *entity.User {
	return &entity.User{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

// UpdateUserReq は PUT /api/users/:id のリクエストボディです。省略したフィールドは変更しません。
type UpdateUserReq struct {
	Name     *string `json:"name" form:"name" binding:"omitempty,min=1"`
	Email    *string `json:"email" form:"email" binding:"omitempty,email"`
	Password *string `json:"password" form:"password" binding:"omitempty,min=1,max=72"`
	Role     *string `json:"role" form:"role" binding:"omitempty,oneof=user admin"`
}

// ToPatch はリクエストを部分更新に変換します。
func (r UpdateUserReq) ToPatch() entity.UserPatch {
	return entity.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Role:     r.Role,
	}
}

// UserRes はユーザーのレスポンス形式です。パスワードは含みません。
type UserRes struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewUserRes はエンティティをレスポンス形式に変換します。
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// NewUserListRes はエンティティの一覧を変換します。
func NewUserListRes(users []entity.User) []UserRes {
	out := make([]UserRes, 0, len(users))
	for i := range users {
		out = append(out, NewUserRes(&users[i]))
	}
	return out
}
