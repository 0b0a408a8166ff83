// Copyright (c) 2026 HiSudoku. All rights reserved.

// Command api is the entry point for the HiSudoku HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis (optional; in-memory token store otherwise).
//  5. Run database migrations (idempotent).
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/hisudoku/hisudoku-api/internal/api"
	"github.com/hisudoku/hisudoku-api/internal/auth"
	"github.com/hisudoku/hisudoku-api/internal/mail"
	"github.com/hisudoku/hisudoku-api/internal/ott"
	"github.com/hisudoku/hisudoku-api/internal/platform/config"
	"github.com/hisudoku/hisudoku-api/internal/platform/constants"
	"github.com/hisudoku/hisudoku-api/internal/platform/migration"
	pgstore "github.com/hisudoku/hisudoku-api/internal/platform/postgres"
	redisstore "github.com/hisudoku/hisudoku-api/internal/platform/redis"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/sudoku"
	"github.com/hisudoku/hisudoku-api/internal/user"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("[HiSudoku] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// Background context for long-lived helpers (janitor, rate limiter).
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. One-Time Token Store ───────────────────────────────────────────
	// Redis when configured; otherwise a per-process map, which is only
	// correct for a single-node deployment.
	var tokenStore ott.Store
	var checkTokenStore func() error

	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()

		tokenStore = ott.NewRedisStore(rdb)
		checkTokenStore = func() error {
			return redisstore.Ping(context.Background(), rdb)
		}
	} else {
		log.Warn("redis_url_not_set_using_memory_token_store")
		memoryStore := ott.NewMemoryStore()
		memoryStore.StartJanitor(appCtx, log)
		tokenStore = memoryStore
	}

	// ── 6. Token Codec ────────────────────────────────────────────────────
	codec, err := sec.NewCodec(cfg.JWTSecret, constants.AuthIssuer)
	must(log, err, "initialize token codec")

	// ── 7. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckTokenStore: checkTokenStore,
	}, log)

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(pool)
	tokenService := auth.NewTokenService(codec, userRepository, cfg.AccessTokenTTL, cfg.EmailTokenTTL)
	oneTimeTokens := ott.NewService(tokenStore, cfg.OneTimeTokenTTL)
	mailer := mail.NewLogSender(log)

	authService := auth.NewService(userRepository, tokenService, oneTimeTokens, mailer, cfg.PublicBaseURL)
	authHandler := auth.NewHandler(authService)

	userService := user.NewService(userRepository)
	userHandler := user.NewHandler(userService)

	sudokuRepository := sudoku.NewRepository(pool)
	sudokuService := sudoku.NewService(sudokuRepository)
	sudokuHandler := sudoku.NewHandler(sudokuService)

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		User:      userHandler,
		Sudoku:    sudokuHandler,
	}

	server := api.NewServer(appCtx, cfg, log, tokenService, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
