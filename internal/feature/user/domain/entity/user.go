// Package entity はuserフィーチャーのドメインエンティティを定義します。
package entity

import "time"

const (
	// RoleUser はロール未指定時に割り当てられます。
	RoleUser = "user"
	// RoleAdmin は管理者権限を表します。
	RoleAdmin = "admin"
)

// User は登録済みのアカウントを表します。
type User struct {
	// ID は作成時に永続化層が生成します。
	ID string

	Name string `validate:"required"`

	// Email は全ユーザーで一意です（保存された大文字小文字のまま比較）。
	Email string `validate:"required,email"`

	// Password は入力時は平文、保存後は bcrypt ハッシュです。
	// 読み取り操作では常に空で返します。ただし認証に使う
	// 検索は例外です。
	Password string `validate:"required,maxbytes=72"`

	Role string `validate:"omitempty,oneof=user admin"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyDefaults は省略可能なフィールドに既定値を設定します。
func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = RoleUser
	}
}

// Sanitized はパスワードを除いた u のコピーを返します。
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Password = ""
	return &cp
}

// Public はクライアントに返してよい表現を返します。
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// PublicUser は User のクライアント向けの表現です。
type PublicUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// UserPatch は部分更新です。nil のフィールドは変更しません。
type UserPatch struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// IsEmpty は patch が何も変更しないかどうかを返します。
func (p UserPatch) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Role == nil
}

// Apply は p で設定されたフィールドを u にコピーします。
func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
}

// ChangesEmail は patch が current と異なるメールアドレスを設定するかどうかを返します。
func (p UserPatch) ChangesEmail(current string) bool {
	return p.Email != nil && *p.Email != current
}
