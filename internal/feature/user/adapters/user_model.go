// Package adapters はuserフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"account_backend/internal/feature/user/domain/entity"
)

// userModel は User のリレーショナルDB上の行です。
type userModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"size:255;not null"`
	Email     string `gorm:"uniqueIndex;size:255;not null"`
	Password  string `gorm:"size:255;not null"`
	Role      string `gorm:"size:32;not null;default:user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName は構造体名に依存しないテーブル名を返します。
func (userModel) TableName() string { return "users" }

// BeforeCreate はID採番とデフォルトロールの設定を行います。
// パスワードのハッシュ化は Create が行います。
func (m *userModel) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.Role == "" {
		m.Role = entity.RoleUser
	}
	return nil
}

func newUserModel(u *entity.User) *userModel {
	return &userModel{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Role:     u.Role,
	}
}

// toEntity は行をエンティティに変換します。ハッシュは withPassword が真のときのみ含めます。
func (m *userModel) toEntity(withPassword bool) *entity.User {
	u := &entity.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if withPassword {
		u.Password = m.Password
	}
	return u
}

// UserModels はこのフィーチャーの AutoMigrate 対象モデルを返します。
func UserModels() []any {
	return []any{&userModel{}}
}
