package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	authhandler "account_backend/internal/feature/auth/transport/handler"
	"account_backend/internal/feature/user/domain/entity"
	userhandler "account_backend/internal/feature/user/transport/handler"
	"account_backend/internal/platform/http/handler"
	"account_backend/internal/platform/http/middleware"
	jwtmw "account_backend/internal/platform/jwt"
	"account_backend/internal/platform/observability"
	"account_backend/internal/shared/ratelimiter"
)

const docsPrefix = "/api/docs"

// Options はルーティングの任意部分を制御します。
type Options struct {
	ServiceName         string
	EnableDocs          bool
	RequireAuthForUsers bool
	EnforceAdminRole    bool
	AllowedOrigins      []string
	MaxBodyBytes        int64
}

// Deps はルータがリクエストを委譲する依存先です。
type Deps struct {
	Auth        *authhandler.AuthHandler
	Users       *userhandler.UserHandler
	Verifier    jwtmw.TokenVerifier
	UserLookup  jwtmw.UserLookup
	AuthLimiter ratelimiter.Limiter
	Prom        *observability.Prom
	Gatherer    prometheus.Gatherer
	Checks      map[string]handler.Pinger
}

func NewRouter(d Deps, opts Options) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false

	if opts.ServiceName != "" {
		r.Use(otelgin.Middleware(opts.ServiceName))
	}
	if d.Prom != nil {
		r.Use(d.Prom.GinMiddleware())
	}
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.Recovery(),
		middleware.SecurityHeaders(docsPrefix),
		middleware.CORS(opts.AllowedOrigins),
	)
	if opts.MaxBodyBytes > 0 {
		r.Use(middleware.MaxBodyBytes(opts.MaxBodyBytes))
	}

	// 導通確認用
	r.GET("/health", handler.Health)
	r.HEAD("/health", handler.Health)
	r.OPTIONS("/health", handler.Health)
	r.GET("/readyz", handler.Readiness(d.Checks))
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	if opts.EnableDocs {
		r.GET(docsPrefix, handler.SwaggerUI(docsPrefix+"/openapi.yaml"))
		r.GET(docsPrefix+"/openapi.yaml", handler.OpenAPISpec)
	}

	authRequired := jwtmw.AuthRequired(d.Verifier, d.UserLookup)

	api := r.Group("/api")

	// 認証
	auth := api.Group("/auth")
	{
		limited := auth.Group("")
		if d.AuthLimiter != nil {
			limited.Use(middleware.RateLimit(d.AuthLimiter))
		}
		limited.POST("/login", d.Auth.Login)
		limited.POST("/register", d.Auth.Register)

		auth.GET("/me", authRequired, d.Auth.Me)
	}

	// ユーザー CRUD
	users := api.Group("/users")
	if opts.RequireAuthForUsers {
		users.Use(authRequired)
	}
	{
		users.GET("", d.Users.List)
		users.GET("/:id", d.Users.Get)
		users.POST("", d.Users.Create)
		users.PUT("/:id", d.Users.Update)
		if opts.EnforceAdminRole {
			users.DELETE("/:id", jwtmw.RequireRole(entity.RoleAdmin), d.Users.Delete)
		} else {
			users.DELETE("/:id", d.Users.Delete)
		}
	}

	r.NoRoute(handler.NotFound)
	return r
}
