package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account_backend/internal/feature/user/domain/entity"
)

// mockUserRepository はテスト用のUserRepositoryモック実装です。
type mockUserRepository struct {
	findByIDFn func(ctx context.Context, id string) (*entity.User, error)
	updateFn   func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	return nil, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, nil
}

func (m *mockUserRepository) Create(ctx context.Context, u *entity.User) (*entity.User, error) {
	return u, nil
}

func (m *mockUserRepository) Update(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, id, patch)
	}
	return &entity.User{ID: id}, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

var sampleUser = &entity.User{
	ID:        "u-1",
	Name:      "A",
	Email:     "a@x.com",
	Role:      entity.RoleUser,
	CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
}

// TestNewCachingUserRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingUserRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 5 * time.Minute, "users"},
		{"negative ttl uses default", -time.Minute, "", 5 * time.Minute, "users"},
		{"custom values preserved", 10 * time.Minute, "custom", 10 * time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingUserRepository(nil, tt.ttl, &mockUserRepository{}, tt.namespace)

			assert.Equal(t, tt.expectedTTL, repo.ttl)
			assert.Equal(t, tt.expectedNamespace, repo.namespace)
		})
	}
}

// TestCachingUserRepository_FindByID_NilRedis はRedisがnilの場合にキャッシュをバイパスすることを検証します。
func TestCachingUserRepository_FindByID_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) { return sampleUser, nil },
	}
	repo := NewCachingUserRepository(nil, 5*time.Minute, inner, "users")

	u, err := repo.FindByID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, sampleUser, u)
}

// TestCachingUserRepository_FindByID_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingUserRepository_FindByID_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cachedJSON, _ := json.Marshal(toCached(sampleUser))
	mock.ExpectGet("users:id:u-1").SetVal(string(cachedJSON))

	innerCalled := false
	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	u, err := repo.FindByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.False(t, innerCalled, "inner repository should not be called on cache hit")
	assert.Equal(t, "a@x.com", u.Email)
	assert.Empty(t, u.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_FindByID_CacheMiss はキャッシュミス時にDBから取得しキャッシュに保存することを検証します。
func TestCachingUserRepository_FindByID_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(toCached(sampleUser))
	mock.ExpectGet("users:id:u-1").RedisNil()
	mock.ExpectSet("users:id:u-1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) { return sampleUser, nil },
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	u, err := repo.FindByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_FindByID_NotFoundIsNotCached は存在しないユーザーがキャッシュされないことを検証します。
func TestCachingUserRepository_FindByID_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("users:id:missing").RedisNil()

	repo := NewCachingUserRepository(rdb, 5*time.Minute, &mockUserRepository{}, "users")
	u, err := repo.FindByID(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, u)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_FindByID_InnerError は内部リポジトリのエラーが伝播されることを検証します。
func TestCachingUserRepository_FindByID_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("database error")
	mock.ExpectGet("users:id:u-1").RedisNil()

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) { return nil, expectedErr },
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	_, err := repo.FindByID(context.Background(), "u-1")

	assert.ErrorIs(t, err, expectedErr)
}

// TestCachingUserRepository_FindByID_CorruptedCache は破損したキャッシュを削除しDBにフォールバックすることを検証します。
func TestCachingUserRepository_FindByID_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(toCached(sampleUser))
	mock.ExpectGet("users:id:u-1").SetVal("invalid json")
	mock.ExpectDel("users:id:u-1").SetVal(1)
	mock.ExpectSet("users:id:u-1", expectedJSON, 5*time.Minute).SetVal("OK")

	inner := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id string) (*entity.User, error) { return sampleUser, nil },
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	u, err := repo.FindByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_Update_Invalidates は更新後にキャッシュが無効化されることを検証します。
func TestCachingUserRepository_Update_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel("users:id:u-1").SetVal(1)

	repo := NewCachingUserRepository(rdb, 5*time.Minute, &mockUserRepository{}, "users")
	_, err := repo.Update(context.Background(), "u-1", entity.UserPatch{})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_Update_InnerErrorKeepsCache は更新失敗時にキャッシュを触らないことを検証します。
func TestCachingUserRepository_Update_InnerErrorKeepsCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("update error")
	inner := &mockUserRepository{
		updateFn: func(ctx context.Context, id string, patch entity.UserPatch) (*entity.User, error) {
			return nil, expectedErr
		},
	}

	repo := NewCachingUserRepository(rdb, 5*time.Minute, inner, "users")
	_, err := repo.Update(context.Background(), "u-1", entity.UserPatch{})

	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_Delete_Invalidates は削除後にキャッシュが無効化されることを検証します。
func TestCachingUserRepository_Delete_Invalidates(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectDel("users:id:u-1").SetVal(1)

	repo := NewCachingUserRepository(rdb, 5*time.Minute, &mockUserRepository{}, "users")

	require.NoError(t, repo.Delete(context.Background(), "u-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// TestCachingUserRepository_Delete_NilRedis はRedisがnilでも削除が成功することを検証します。
func TestCachingUserRepository_Delete_NilRedis(t *testing.T) {
	t.Parallel()

	deleted := false
	inner := &mockUserRepository{
		deleteFn: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	repo := NewCachingUserRepository(nil, 5*time.Minute, inner, "users")

	require.NoError(t, repo.Delete(context.Background(), "u-1"))
	assert.True(t, deleted)
}

// TestSafe はsafe関数がRedisキーで問題となる文字を正しくエスケープすることを検証します。
func TestSafe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"abc", "abc"},
		{"a b", "a_b"},
		{"key:value", "key_value"},
		{"users:*", "users__"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, safe(tt.input))
		})
	}
}
