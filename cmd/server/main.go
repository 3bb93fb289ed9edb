// Command server runs the bean log HTTP API.
//
// @title                      Bean Log API
// @version                    1.0
// @description                Personal coffee bean purchase log: sessions, bean log CRUD and form option lists.
// @BasePath                   /api/v1
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-beanlog-backend/docs"
	"github.com/tbourn/go-beanlog-backend/internal/beanlog"
	"github.com/tbourn/go-beanlog-backend/internal/config"
	httpapi "github.com/tbourn/go-beanlog-backend/internal/http"
	"github.com/tbourn/go-beanlog-backend/internal/observability"
	"github.com/tbourn/go-beanlog-backend/internal/repo"
	"github.com/tbourn/go-beanlog-backend/internal/sysutil"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const purgeEvery = time.Hour

func main() {
	_ = godotenv.Load()

	cfg := config.MustLoad()
	sysutil.SetupLogger(cfg.LogPretty, os.Stderr)
	sysutil.SetLogLevel(cfg.LogLevel)
	appVersion := sysutil.FirstNonEmpty(os.Getenv("APP_VERSION"), version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, appVersion)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	dsn := cfg.DBPath
	if cfg.DBDriver == "postgres" {
		dsn = cfg.DatabaseURL
	}
	db, err := repo.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("open store")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate store")
	}

	opts, err := beanlog.LoadOptionsFile(cfg.OptionsPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.OptionsPath).Msg("load form options")
	}

	secret, generated, err := sysutil.SessionSecret(cfg.AuthSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("session secret")
	}
	if generated {
		log.Warn().Msg("AUTH_SECRET not set; using a random key, sessions end on restart")
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, cfg, opts, secret)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go purgeIdempotency(ctx, db)

	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.DBDriver).
			Str("version", appVersion).
			Msg("bean log API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server exited")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// purgeIdempotency drops expired Idempotency-Key records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(purgeEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency keys")
				continue
			}
			if n > 0 {
				log.Debug().Int64("purged", n).Msg("expired idempotency keys removed")
			}
		}
	}
}
