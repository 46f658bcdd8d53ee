package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	redisv9 "github.com/redis/go-redis/v9"

	"account_backend/internal/app/config"
	"account_backend/internal/app/di"
	"account_backend/internal/app/router"
	authhandler "account_backend/internal/feature/auth/transport/handler"
	authusecase "account_backend/internal/feature/auth/usecase"
	userhandler "account_backend/internal/feature/user/transport/handler"
	userusecase "account_backend/internal/feature/user/usecase"
	"account_backend/internal/platform/http/handler"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/observability"
	infraredis "account_backend/internal/platform/redis"
	"account_backend/internal/shared/ratelimiter"
)

const serviceName = "account-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.AppEnv, os.Stdout)
	slog.SetDefault(log)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Error("tracer init failed", "error", err)
		os.Exit(1)
	}

	// db
	storage, err := di.NewStorage(ctx, cfg)
	if err != nil {
		log.Error("storage init failed", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	checks := map[string]handler.Pinger{"storage": storage.Ping}

	// Redis
	var rdb *redisv9.Client
	if cfg.Redis.Host == "" {
		log.Info("REDIS_HOST not set. Running without cache.")
	} else if tmp, err := infraredis.NewRedisClient(ctx, infraredis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
	}); err != nil {
		log.Warn("Redis unavailable. Running without cache.", "error", err)
	} else {
		rdb = tmp
		checks["cache"] = infraredis.Pinger(rdb)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// Repository
	userRepo := di.NewUserRepository(storage.Users, prom, rdb, cfg.Redis.UserTTL)

	// 管理者の初期作成
	if created, err := di.EnsureAdminUser(ctx, userRepo, cfg.Admin.Name, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		log.Error("admin seed failed", "error", err)
		os.Exit(1)
	} else if created {
		log.Info("admin user created", "email", cfg.Admin.Email)
	}

	// JWT_SECRETチェック（開発中の注意喚起）
	secret := cfg.JWT.Secret
	if secret == "" {
		// 再起動ごとに既存トークンは無効になる
		log.Warn("JWT_SECRET is not set. Using a random per-process secret.")
		secret = uuid.NewString() + uuid.NewString()
	}
	tokens := jwtmw.NewManager(secret, cfg.JWT.Expiration)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens)
	userUC := userusecase.NewUserUsecase(userRepo)

	if !cfg.RequireAuthForUsers {
		log.Warn("/api/users routes are not protected. Set REQUIRE_AUTH_FOR_USERS=true to require a token.")
	}

	var authOpts []authhandler.AuthHandlerOption
	var userOpts []userhandler.UserHandlerOption
	if cfg.EnforceAdminRole {
		authOpts = append(authOpts, authhandler.WithRestrictedRegistrationRoles())
		userOpts = append(userOpts, userhandler.WithAdminOnlyRoleChanges())
	}

	// ルータ生成
	engine := router.NewRouter(router.Deps{
		Auth:        authhandler.NewAuthHandler(authUC, authOpts...),
		Users:       userhandler.NewUserHandler(userUC, userOpts...),
		Verifier:    tokens,
		UserLookup:  userRepo,
		AuthLimiter: ratelimiter.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow),
		Prom:        prom,
		Gatherer:    reg,
		Checks:      checks,
	}, router.Options{
		ServiceName:         serviceName,
		EnableDocs:          cfg.IsDevelopment(),
		RequireAuthForUsers: cfg.RequireAuthForUsers,
		EnforceAdminRole:    cfg.EnforceAdminRole,
		AllowedOrigins:      cfg.CORSAllowedOrigins,
		MaxBodyBytes:        cfg.MaxBodyBytes,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.AppEnv, "driver", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// グレースフルシャットダウン
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Error("Failed to close Redis client", "error", err)
		}
	}
	if err := storage.Close(shutdownCtx); err != nil {
		log.Error("Failed to close storage", "error", err)
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", "error", err)
	}
	log.Info("shutdown complete")
}
