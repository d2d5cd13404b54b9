package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/webcore/auth-system/internal/api"
	"github.com/webcore/auth-system/internal/infrastructure/config"
	"github.com/webcore/auth-system/internal/infrastructure/db/postgres"
	"github.com/webcore/auth-system/internal/infrastructure/db/redis"
	"github.com/webcore/auth-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:        cfg.LogLevel,
		Pretty:       cfg.Env == "development",
		RedactFields: logger.DefaultPIIFields,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	var cache *redis.SessionCache
	if cfg.Redis.Addr != "" {
		cache, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis connection failed")
		}
		defer cache.Close()
		log.Info().Str("addr", cfg.Redis.Addr).Msg("session cache backed by redis")
	} else {
		log.Info().Msg("REDIS_ADDR not set, session cache held in process memory")
	}

	e := api.NewRouter(db, cache, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("auth_type", cfg.AuthType).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
