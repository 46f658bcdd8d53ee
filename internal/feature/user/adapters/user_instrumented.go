package adapters

import (
	"context"

	"account_backend/internal/feature/user/domain/entity"
	"account_backend/internal/feature/user/usecase"
)

// DBObserver はリポジトリ操作の所要時間を計測します。
type DBObserver interface {
	ObserveDB(op string, fn func() error) error
}

// instrumentedUsers は各リポジトリ呼び出しのレイテンシとエラー種別を記録します。
type instrumentedUsers struct {
	inner usecase.UserRepository
	obs   DBObserver
}

var _ usecase.UserRepository = (*instrumentedUsers)(nil)

// NewInstrumentedUserRepository は inner をラップし、各呼び出しを obs で計測します。
func NewInstrumentedUserRepository(inner usecase.UserRepository, obs DBObserver) usecase.UserRepository {
	return &instrumentedUsers{inner: inner, obs: obs}
}

func (r *instrumentedUsers) FindAll(ctx context.Context) (out []entity.User, err error) {
	err = r.obs.ObserveDB("users.find_all", func() error {
		out, err = r.inner.FindAll(ctx)
		return err
	})
	return out, err
}

func (r *instrumentedUsers) FindByID(ctx context.Context, id string) (out *entity.User, err error) {
	err = r.obs.ObserveDB("users.find_by_id", func() error {
		out, err = r.inner.FindByID(ctx, id)
		return err
	})
	return out, err
}

func (r *instrumentedUsers) FindByEmail(ctx context.Context, email string) (out *entity.User, err error) {
	err = r.obs.ObserveDB("users.find_by_email", func() error {
		out, err = r.inner.FindByEmail(ctx, email)
		return err
	})
	return out, err
}

func (r *instrumentedUsers) Create(ctx context.Context, u *entity.User) (out *entity.User, err error) {
	err = r.obs.ObserveDB("users.create", func() error {
		out, err = r.inner.Create(ctx, u)
		return err
	})
	return out, err
}

func (r *instrumentedUsers) Update(ctx context.Context, id string, patch entity.UserPatch) (out *entity.User, err error) {
	err = r.obs.ObserveDB("users.update", func() error {
		out, err = r.inner.Update(ctx, id, patch)
		return err
	})
	return out, err
}

func (r *instrumentedUsers) Delete(ctx context.Context, id string) error {
	return r.obs.ObserveDB("users.delete", func() error {
		return r.inner.Delete(ctx, id)
	})
}
