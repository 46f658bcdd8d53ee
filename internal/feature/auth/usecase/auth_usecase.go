// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"account_backend/internal/feature/user/domain"
	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/platform/credential"
)

// dummyHash は存在しないユーザーでもbcrypt比較を実行するためのダミーハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// FindByEmail はパスワードハッシュを含むユーザーを返します。存在しない場合は (nil, nil)。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create は新しいユーザーを永続化し、パスワードを除いた保存結果を返します。
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
}

// TokenGenerator はJWTトークン生成のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenGenerator interface {
	GenerateToken(userID, role string) (string, error)
}

// AuthResult はログインまたは登録の成功時に返されます。
type AuthResult struct {
	Token string
	User  entity.PublicUser
}

// AuthUsecase は認証ビジネスロジックを実装します。
type AuthUsecase struct {
	users  UserRepository
	tokens TokenGenerator
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenGenerator) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
	}
}

// AuthenticateUser はメールアドレスとパスワードを検証し、トークンを発行します。
// ユーザー未検出とパスワード不一致は同じ domain.ErrInvalidCredentials を返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) AuthenticateUser(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	passwordHash := dummyHash
	if user != nil {
		passwordHash = user.Password
	}
	ok := credential.Verify(passwordHash, password)

	if user == nil || !ok {
		return nil, domain.ErrInvalidCredentials
	}
	return u.issue(user)
}

// RegisterUser は新規ユーザーを作成し、ログインと同じ形式の結果を返します。
func (u *AuthUsecase) RegisterUser(ctx context.Context, input *entity.User) (*AuthResult, error) {
	existing, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUserAlreadyExists
	}

	created, err := u.users.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return u.issue(created)
}

func (u *AuthUsecase) issue(user *entity.User) (*AuthResult, error) {
	token, err := u.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &AuthResult{Token: token, User: user.Public()}, nil
}
