package dto

import "account_backend/internal/feature/auth/usecase"

// UserRes は認証済みユーザーの公開用の表現です。
type UserRes struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthRes はログイン・登録レスポンスの data 部です。
type AuthRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// IdentityRes は /me の data 部です。
type IdentityRes struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// NewAuthRes はユースケースの結果をレスポンス形式に変換します。
func NewAuthRes(r *usecase.AuthResult) AuthRes {
	return AuthRes{
		Token: r.Token,
		User: UserRes{
			ID:    r.User.ID,
			Name:  r.User.Name,
			Email: r.User.Email,
			Role:  r.User.Role,
		},
	}
}
