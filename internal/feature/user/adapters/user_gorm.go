package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"account_backend/internal/feature/user/domain"
	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/credential"
)

// publicColumns は通常の読み取りからパスワードハッシュを除外します。
var publicColumns = []string{"id", "name", "email", "role", "created_at", "updated_at"}

// userGorm はUserRepositoryインターフェースのGORM実装です。
// PostgreSQLとSQLiteの両方で動作します。
type userGorm struct {
	db *gorm.DB
}

// userGormがUserRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.UserRepository = (*userGorm)(nil)

// NewUserGorm は指定されたgorm.DB接続でuserGormの新しいインスタンスを生成します。
func NewUserGorm(db *gorm.DB) *userGorm {
	return &userGorm{db: db}
}

// FindAll は全ユーザーを作成日時順に返します。
func (r *userGorm) FindAll(ctx context.Context) ([]entity.User, error) {
	var models []userModel
	if err := r.db.WithContext(ctx).Select(publicColumns).Order("created_at").Find(&models).Error; err != nil {
		return nil, err
	}
	users := make([]entity.User, 0, len(models))
	for i := range models {
		users = append(users, *models[i].toEntity(false))
	}
	return users, nil
}

// FindByID はIDでユーザーを取得します。存在しない場合は (nil, nil) を返します。
func (r *userGorm) FindByID(ctx context.Context, id string) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Select(publicColumns).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.toEntity(false), nil
}

// FindByEmail は認証用にハッシュを含むレコードを返します。
func (r *userGorm) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m.toEntity(true), nil
}

// Create はユーザーをデータベースに追加します。
// パスワードはBeforeCreateフックでハッシュ化されます。
// 同じメールアドレスが既に存在する場合、domain.ErrUserAlreadyExistsを返します。
func (r *userGorm) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	in := *u
	in.ApplyDefaults()
	if err := entity.Validate(&in); err != nil {
		return nil, err
	}

	// 入力がハッシュ文字列に見えても常にハッシュ化する
	hashed, err := credential.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	in.Password = hashed

	m := newUserModel(&in)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}
	return m.toEntity(false), nil
}

// Update は patch を適用し、更新後のレコードを返します。
// 該当するユーザーがいない場合は (nil, nil) を返します。
func (r *userGorm) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	var m userModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	next := m.toEntity(true)
	patch.Apply(next)
	next.ApplyDefaults()
	if err := entity.Validate(next); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if patch.Name != nil {
		updates["name"] = next.Name
	}
	if patch.Email != nil {
		updates["email"] = next.Email
	}
	if patch.Role != nil {
		updates["role"] = next.Role
	}
	if patch.Password != nil {
		hashed, err := credential.Hash(next.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if len(updates) == 0 {
		return m.toEntity(false), nil
	}

	res := r.db.WithContext(ctx).Model(&userModel{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return nil, domain.ErrEmailInUse
		}
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(ctx, id)
}

// Delete はユーザーを削除します。存在しない id の削除はエラーになりません。
func (r *userGorm) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&userModel{}).Error
}

// isUniqueViolation は対応する各ドライバの一意制約違反を判定します。
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// PostgreSQL 23505: unique_violation
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
