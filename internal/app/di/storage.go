// Package di はアプリケーションの構成要素を組み立てるファクトリを提供します。
package di

import (
	"context"
	"fmt"
	"log/slog"

	"account_backend/internal/app/config"
	useradapters "account_backend/internal/feature/user/adapters"
	"account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/db"
	"account_backend/internal/platform/mongodb"
)

// Storage は選択されたユーザーストアと、そのヘルスチェック・終了処理です。
type Storage struct {
	Users usecase.UserRepository
	Ping  func(ctx context.Context) error
	Close func(ctx context.Context) error
}

// NewStorage は cfg.DB.Driver で指定されたバックエンドを開きます。
func NewStorage(ctx context.Context, cfg config.Config) (*Storage, error) {
	if cfg.DB.Driver == "mongo" {
		return newMongoStorage(ctx, cfg)
	}
	return newRelationalStorage(cfg)
}

func newRelationalStorage(cfg config.Config) (*Storage, error) {
	gdb, err := db.Open(db.Config{
		Driver:     cfg.DB.Driver,
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Name:       cfg.DB.Name,
		Host:       cfg.DB.Host,
		Port:       cfg.DB.Port,
		SSLMode:    cfg.DB.SSLMode,
		SQLitePath: cfg.DB.SQLitePath,
	}, cfg.DB.Timeout, cfg.DB.Migrate)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("sql handle: %w", err)
	}
	slog.Info("relational storage ready", "driver", cfg.DB.Driver)

	return &Storage{
		Users: useradapters.NewUserGorm(gdb),
		Ping:  sqlDB.PingContext,
		Close: func(context.Context) error { return sqlDB.Close() },
	}, nil
}

func newMongoStorage(ctx context.Context, cfg config.Config) (*Storage, error) {
	client, database, err := mongodb.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return nil, err
	}
	repo := useradapters.NewUserMongo(database)
	if err := repo.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}

	return &Storage{
		Users: repo,
		Ping:  mongodb.Pinger(client),
		Close: client.Disconnect,
	}, nil
}
