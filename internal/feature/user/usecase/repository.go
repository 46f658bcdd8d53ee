package usecase

import (
	"context"

	"account_backend/internal/feature/user/domain/entity"
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
//
// 検索で該当がない場合は (nil, nil) を返します。
// 不在をエラーとするかはユースケースが判断します。
type UserRepository interface {
	// FindAll はパスワードを除いた全ユーザーを返します。
	FindAll(ctx context.Context) ([]entity.User, error)

	// FindByID はパスワードを除いたユーザーを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// FindByEmail は認証に使うため、パスワードハッシュを含む
	// レコードを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create は新しいユーザーを検証し、パスワードをハッシュ化して保存します。
	// パスワードを除いた保存結果を返します。
	Create(ctx context.Context, user *entity.User) (*entity.User, error)

	// Update は作成時と同じ検証を行ったうえで id のユーザーに patch を適用し、
	// パスワードを除いた更新後のレコードを返します。
	Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)

	// Delete は id のユーザーを削除します。
	Delete(ctx context.Context, id string) error
}
