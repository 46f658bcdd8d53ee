// Package cache はリポジトリインターフェースのキャッシュ実装を提供します。
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

// CachingUserRepository は UserRepository の FindByID を Redis でキャッシュします。
// 認証ミドルウェアがリクエストごとにトークンの subject を引くため、
// FindByID が最も頻繁に呼ばれます。
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// cachedUser は Redis 上の表現です。パスワードは保持しません。
type cachedUser struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCached(u *entity.User) cachedUser {
	return cachedUser{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (c cachedUser) toEntity() *entity.User {
	return &entity.User{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Role:      c.Role,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// NewCachingUserRepository は UserRepository に Redis キャッシュを被せます。
// ttl が 0 なら 5 分、namespace が空なら "users" を使います。
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindByID はキャッシュを先に確認し、なければ内側のリポジトリを参照します。
// 見つからなかった結果はキャッシュしません。
func (c *CachingUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	// Redis 未設定ならキャッシュを使わない
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) キャッシュを確認
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cu cachedUser
		if err := json.Unmarshal(b, &cu); err == nil {
			return cu.toEntity(), nil
		}
		// 壊れたキャッシュを削除
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) DB にフォールバック
	u, err := c.inner.FindByID(ctx, id)
	if err != nil || u == nil {
		return u, err
	}

	// 3) キャッシュに保存（失敗しても続行）
	if b, err := json.Marshal(toCached(u)); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return u, nil
}

func (c *CachingUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	return c.inner.FindAll(ctx)
}

func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	return c.inner.Create(ctx, u)
}

// Update は更新後にキャッシュを無効化します。
func (c *CachingUserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	u, err := c.inner.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, id)
	return u, nil
}

// Delete はユーザーを削除し、キャッシュを無効化します。
func (c *CachingUserRepository) Delete(ctx context.Context, id string) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, id)
	return nil
}

func (c *CachingUserRepository) invalidate(ctx context.Context, id string) {
	if c.rdb == nil {
		return
	}
	_ = c.rdb.Del(ctx, c.cacheKey(id)).Err() // Best effort: don't fail if cache deletion fails
}

// cacheKey はユーザー id のキャッシュキーを生成します。
func (c *CachingUserRepository) cacheKey(id string) string {
	return fmt.Sprintf("%s:id:%s", c.namespace, safe(id))
}

// safe は Redis キーで問題になる文字をエスケープします。
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
