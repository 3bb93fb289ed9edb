// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, sessions, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/config"
	"github.com/tbourn/go-beanlog-backend/internal/domain"
	"github.com/tbourn/go-beanlog-backend/internal/http/handlers"
	"github.com/tbourn/go-beanlog-backend/internal/http/middleware"
	"github.com/tbourn/go-beanlog-backend/internal/repo"
	"github.com/tbourn/go-beanlog-backend/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// logStoreShim adapts the repository free functions to the services.LogStore
// interface expected by the bean log services.
type logStoreShim struct{}

// FetchAll proxies repo.FetchAll.
func (logStoreShim) FetchAll(ctx context.Context, db *gorm.DB, owner string) ([]beanlog.Record, error) {
	return repo.FetchAll(ctx, db, owner)
}

// Get proxies repo.GetBeanLog.
func (logStoreShim) Get(ctx context.Context, db *gorm.DB, owner, id string) (beanlog.Record, error) {
	return repo.GetBeanLog(ctx, db, owner, id)
}

// Create proxies repo.CreateBeanLog.
func (logStoreShim) Create(ctx context.Context, db *gorm.DB, owner string, rec beanlog.Record) (beanlog.Record, error) {
	return repo.CreateBeanLog(ctx, db, owner, rec)
}

// Update proxies repo.UpdateBeanLog.
func (logStoreShim) Update(ctx context.Context, db *gorm.DB, owner, id string, rec beanlog.Record) (beanlog.Record, error) {
	return repo.UpdateBeanLog(ctx, db, owner, id, rec)
}

// Delete proxies repo.DeleteBeanLog.
func (logStoreShim) Delete(ctx context.Context, db *gorm.DB, owner, id string) error {
	return repo.DeleteBeanLog(ctx, db, owner, id)
}

// DeleteAllForOwner proxies repo.DeleteAllForOwner (account deletion).
func (logStoreShim) DeleteAllForOwner(ctx context.Context, db *gorm.DB, owner string) (int64, error) {
	return repo.DeleteAllForOwner(ctx, db, owner)
}

// Stats proxies repo.BeanLogsStats (list change detection).
func (logStoreShim) Stats(ctx context.Context, db *gorm.DB, owner string) (int64, *time.Time, error) {
	return repo.BeanLogsStats(ctx, db, owner)
}

// userStoreShim adapts the user repository to services.UserStore.
type userStoreShim struct{}

// CreateUser proxies repo.CreateUser.
func (userStoreShim) CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return repo.CreateUser(ctx, db, u)
}

// GetUser proxies repo.GetUser.
func (userStoreShim) GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	return repo.GetUser(ctx, db, id)
}

// GetUserByEmail proxies repo.GetUserByEmail.
func (userStoreShim) GetUserByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.User, error) {
	return repo.GetUserByEmail(ctx, db, email)
}

// DeleteUser proxies repo.DeleteUser.
func (userStoreShim) DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteUser(ctx, db, id)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), sessions,
// idempotency and rate limiting, CORS and security headers, health, metrics
// and docs endpoints, and then mounts the versioned API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Gzip (never for /metrics)
//  7. Metrics
//  8. Authenticate: resolve the session token to a user id
//  9. Idempotency validator (before rate limiter to allow bypass on replay)
//  10. Rate limiter (per user/IP, bypass on replay)
//  11. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, opts beanlog.Options, secret []byte) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{middleware.HeaderIdempotencyKey},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 6) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Dependency injection: services ← repo/db
	logSvc := services.NewLogService(db, logStoreShim{})
	authSvc := services.NewAuthService(db, userStoreShim{}, logStoreShim{}, logSvc.Lists, secret)
	if cfg.AuthTokenTTL > 0 {
		authSvc.TokenTTL = cfg.AuthTokenTTL
	}

	// 8) Sessions (bearer header or cookie)
	r.Use(middleware.Authenticate(authSvc.ParseToken))

	// 9) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		func(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, scope, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 10) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP()).
		Exempt("/health", "/metrics")
	r.Use(rl.Handler())

	// 11) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		// Explicit origins may carry the session cookie.
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	if apiBase == "/" {
		apiBase = ""
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStore:         false,
		EnablePolicy:    true,
		NoStorePrefixes: []string{apiBase + "/auth", apiBase + "/account"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(logSvc, authSvc, opts, handlers.Settings{
		CookieSecure:   cfg.CookieSecure,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	api := groupWithPrefix(r, apiBase)
	{
		// Sessions
		api.POST("/auth/register", h.Register)
		api.POST("/auth/login", h.Login)
		api.POST("/auth/guest", h.GuestLogin)
		api.POST("/auth/logout", h.Logout)

		// Form option lists
		api.GET("/options", h.ListOptions)
	}

	priv := api.Group("", middleware.RequireAuth(authSvc.UserExists))
	{
		// Account
		priv.GET("/account", h.GetAccount)
		priv.DELETE("/account", h.DeleteAccount)

		// Bean logs
		priv.GET("/logs", h.ListLogs)
		priv.POST("/logs", h.CreateLog)
		priv.GET("/logs/:id", h.GetLog)
		priv.PUT("/logs/:id", h.UpdateLog)
		priv.DELETE("/logs/:id", h.DeleteLog)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
