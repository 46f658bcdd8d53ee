package db

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	useradapters "account_backend/internal/feature/user/adapters"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。テストから短縮できるよう変数にしています。
var retryInterval = 3 * time.Second

// Config はリレーショナルDBへの接続設定です。
type Config struct {
	Driver     string
	User       string
	Password   string
	Name       string
	Host       string
	Port       string
	SSLMode    string
	SQLitePath string
}

// BuildDSN は設定から接続文字列を組み立てます。
// Postgres は URL 形式で、ユーザー名とパスワードはエスケープされます。
func BuildDSN(cfg Config) string {
	if cfg.Driver == DriverSQLite {
		if cfg.SQLitePath == "" {
			return "account.db"
		}
		return cfg.SQLitePath
	}

	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	host := cfg.Host
	if cfg.Port != "" {
		host = net.JoinHostPort(cfg.Host, cfg.Port)
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     host,
		Path:     "/" + cfg.Name,
		RawQuery: url.Values{"sslmode": {sslmode}}.Encode(),
	}
	return u.String()
}

// Opener は DSN から *gorm.DB を開く関数です。
type Opener func(dsn string) (*gorm.DB, error)

// OpenerFor は driver に対応する Opener を返します。
func OpenerFor(driver string) (Opener, error) {
	gcfg := &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(slogWriter{}),
	}
	switch driver {
	case DriverPostgres, "":
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gcfg)
		}, nil
	case DriverSQLite:
		return func(dsn string) (*gorm.DB, error) {
			return gorm.Open(sqlite.Open(dsn), gcfg)
		}, nil
	default:
		return nil, fmt.Errorf("unsupported relational driver %q", driver)
	}
}

// ConnectWithRetry は timeout までの間、retryInterval ごとに接続を試みます。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Open は cfg で接続し、migrate が真ならユーザーテーブルを作成します。
func Open(cfg Config, timeout time.Duration, migrate bool) (*gorm.DB, error) {
	opener, err := OpenerFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	db, err := ConnectWithRetry(BuildDSN(cfg), timeout, opener)
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// Migrate はユーザーテーブルを作成・更新します。
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(useradapters.UserModels()...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
