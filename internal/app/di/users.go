package di

import (
	"time"

	"github.com/redis/go-redis/v9"

	useradapters "account_backend/internal/feature/user/adapters"
	"account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/cache"
)

// NewUserRepository は base にメトリクス計測を重ね、Redis があればキャッシュも重ねます。
// Redis がない場合は計測付きのストアをそのまま使います。
func NewUserRepository(base usecase.UserRepository, obs useradapters.DBObserver, rdb *redis.Client, ttl time.Duration) usecase.UserRepository {
	repo := base
	if obs != nil {
		repo = useradapters.NewInstrumentedUserRepository(repo, obs)
	}
	if rdb != nil {
		return cache.NewCachingUserRepository(rdb, ttl, repo, "users")
	}
	return repo
}
