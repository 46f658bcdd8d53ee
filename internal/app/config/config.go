package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

// Config はアプリケーション全体の設定です。環境変数（.env を含む）から読み込みます。
type Config struct {
	AppEnv string
	Port   string

	DB struct {
		Driver     string
		Host       string
		Port       string
		User       string
		Password   string
		Name       string
		SSLMode    string
		SQLitePath string
		Migrate    bool
		Timeout    time.Duration
	}

	Mongo struct {
		URI      string
		Database string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
		UserTTL  time.Duration
	}

	JWT struct {
		Secret     string
		Expiration time.Duration
	}

	// 起動時に作成する管理者。Email と Password が両方ある場合のみ有効
	Admin struct {
		Name     string
		Email    string
		Password string
	}

	CORSAllowedOrigins  []string
	AuthRateLimit       int
	AuthRateWindow      time.Duration
	RequireAuthForUsers bool
	EnforceAdminRole    bool
	MaxBodyBytes        int64
	OTLPEndpoint        string
}

// IsDevelopment は APP_ENV が development かどうかを返します。
func (c Config) IsDevelopment() bool { return c.AppEnv == EnvDevelopment }

// Load は .env（存在する場合）とプロセスの環境変数から設定を読み込みます。
func Load() (Config, error) {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "5000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "account")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "60s")
	v.SetDefault("SQLITE_PATH", "account.db")
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("MONGO_URI", "")
	v.SetDefault("MONGO_DATABASE", "account")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("USER_CACHE_TTL", "5m")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("AUTH_RATE_LIMIT", 10)
	v.SetDefault("AUTH_RATE_WINDOW", "1m")
	v.SetDefault("REQUIRE_AUTH_FOR_USERS", false)
	v.SetDefault("ENFORCE_ADMIN_ROLE", false)
	v.SetDefault("ADMIN_NAME", "Administrator")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("MAX_BODY_BYTES", 1<<20)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	return v
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	cfg.AppEnv = strings.ToLower(v.GetString("APP_ENV"))
	cfg.Port = v.GetString("PORT")

	cfg.DB.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.DB.Host = v.GetString("DB_HOST")
	cfg.DB.Port = v.GetString("DB_PORT")
	cfg.DB.User = v.GetString("DB_USER")
	cfg.DB.Password = v.GetString("DB_PASSWORD")
	cfg.DB.Name = v.GetString("DB_NAME")
	cfg.DB.SSLMode = v.GetString("DB_SSLMODE")
	cfg.DB.SQLitePath = v.GetString("SQLITE_PATH")
	cfg.DB.Migrate = v.GetBool("RUN_MIGRATIONS")
	cfg.DB.Timeout = v.GetDuration("DB_CONNECT_TIMEOUT")

	cfg.Mongo.URI = v.GetString("MONGO_URI")
	cfg.Mongo.Database = v.GetString("MONGO_DATABASE")

	cfg.Redis.Host = v.GetString("REDIS_HOST")
	cfg.Redis.Port = v.GetString("REDIS_PORT")
	cfg.Redis.Password = v.GetString("REDIS_PASSWORD")
	cfg.Redis.UserTTL = v.GetDuration("USER_CACHE_TTL")

	cfg.JWT.Secret = v.GetString("JWT_SECRET")
	cfg.JWT.Expiration = v.GetDuration("JWT_EXPIRATION")

	cfg.CORSAllowedOrigins = splitCSV(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.AuthRateLimit = v.GetInt("AUTH_RATE_LIMIT")
	cfg.AuthRateWindow = v.GetDuration("AUTH_RATE_WINDOW")
	cfg.RequireAuthForUsers = v.GetBool("REQUIRE_AUTH_FOR_USERS")
	cfg.EnforceAdminRole = v.GetBool("ENFORCE_ADMIN_ROLE")
	cfg.Admin.Name = v.GetString("ADMIN_NAME")
	cfg.Admin.Email = v.GetString("ADMIN_EMAIL")
	cfg.Admin.Password = v.GetString("ADMIN_PASSWORD")
	cfg.MaxBodyBytes = v.GetInt64("MAX_BODY_BYTES")
	cfg.OTLPEndpoint = v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres", "sqlite", "mongo":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.Driver == "mongo" && c.Mongo.URI == "" {
		return errors.New("MONGO_URI is required when DB_DRIVER=mongo")
	}
	if c.JWT.Secret == "" && !c.IsDevelopment() {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.EnforceAdminRole && !c.RequireAuthForUsers {
		return errors.New("ENFORCE_ADMIN_ROLE requires REQUIRE_AUTH_FOR_USERS")
	}
	if (c.Admin.Email == "") != (c.Admin.Password == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together")
	}
	if c.JWT.Expiration <= 0 {
		return fmt.Errorf("JWT_EXPIRATION must be positive, got %s", c.JWT.Expiration)
	}
	return nil
}

// splitCSV は "a, b,,c" を ["a","b","c"] に変換します。
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
