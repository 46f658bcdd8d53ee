// Package usecase はユーザー管理のビジネスロジックを実装します。
package usecase

import (
	"context"

	"account_backend/internal/feature/user/domain"
	"account_backend/internal/feature/user/domain/entity"
)

// UserUsecase は UserRepository の上で存在確認とメールアドレスの一意性を保証します。
type UserUsecase struct {
	repo UserRepository
}

// NewUserUsecase はUserUsecaseの新しいインスタンスを生成します。
func NewUserUsecase(repo UserRepository) *UserUsecase {
	return &UserUsecase{repo: repo}
}

// GetAllUsers は全ユーザーを返します。
func (u *UserUsecase) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	return u.repo.FindAll(ctx)
}

// GetUserByID はユーザーを返します。存在しない場合は domain.ErrUserNotFound。
func (u *UserUsecase) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

// CreateUser は新しいユーザーを保存します。メールアドレスは未登録である必要があります。
// 最終的な判定はストレージの一意インデックスが行い、この確認は
// 通常のケースで分かりやすいエラーを返すためのものです。
func (u *UserUsecase) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	existing, err := u.repo.FindByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}
	return u.repo.Create(ctx, user)
}

// UpdateUser は既存ユーザーに patch を適用します。
// 他のユーザーのメールアドレスへの変更は domain.ErrEmailInUse になります。
func (u *UserUsecase) UpdateUser(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	current, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, domain.ErrUserNotFound
	}

	if patch.ChangesEmail(current.Email) {
		holder, err := u.repo.FindByEmail(ctx, *patch.Email)
		if err != nil {
			return nil, err
		}
		if holder != nil && holder.ID != id {
			return nil, domain.ErrEmailInUse
		}
	}

	updated, err := u.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	// 検索と更新の間に削除された
	if updated == nil {
		return nil, domain.ErrUserNotFound
	}
	return updated, nil
}

// DeleteUser は既存ユーザーを削除します。
func (u *UserUsecase) DeleteUser(ctx context.Context, id string) error {
	current, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return domain.ErrUserNotFound
	}
	return u.repo.Delete(ctx, id)
}
