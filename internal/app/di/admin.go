package di

import (
	"context"
	"fmt"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

// EnsureAdminUser は email の利用者が存在しない場合に管理者を作成します。
// email と password のどちらかが空なら何もしません。
// 既存の利用者のロールは変更しません。
func EnsureAdminUser(ctx context.Context, repo usecase.UserRepository, name, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	existing, err := repo.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("lookup admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	if _, err := repo.Create(ctx, &entity.User{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     entity.RoleAdmin,
	}); err != nil {
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}
