// Command server runs the accounts API.
//
// @title                       Accounts API
// @version                     1.0
// @description                 Registers wallet addresses and issues tokens to wallets that prove ownership.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/walletreg/accounts-api/internal/api"
	"github.com/walletreg/accounts-api/internal/api/handler"
	"github.com/walletreg/accounts-api/internal/core/service"
	mongodb "github.com/walletreg/accounts-api/internal/infrastructure/db/mongo"
	redisdb "github.com/walletreg/accounts-api/internal/infrastructure/db/redis"
	"github.com/walletreg/accounts-api/internal/infrastructure/ethereum"
	"github.com/walletreg/accounts-api/internal/infrastructure/jobs"
	"github.com/walletreg/accounts-api/internal/infrastructure/queue"
	"github.com/walletreg/accounts-api/internal/infrastructure/token"
	"github.com/walletreg/accounts-api/internal/pkg/config"
	"github.com/walletreg/accounts-api/internal/pkg/metrics"
	"github.com/walletreg/accounts-api/pkg/logger"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: cfg.AppName,
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- MongoDB ---
	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:         cfg.Mongo.URI,
		Database:    cfg.Mongo.Database,
		Timeout:     cfg.Mongo.Timeout,
		MaxPoolSize: cfg.Mongo.MaxPoolSize,
	})
	if err != nil {
		return fmt.Errorf("connect mongodb: %w", err)
	}
	defer func() {
		if err := mongodb.Disconnect(client, cfg.Mongo.Timeout); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	accounts := mongodb.NewAccountRepository(db, cfg.Mongo.Collection, cfg.Mongo.Timeout)
	if err := accounts.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	log.Info().Str("database", cfg.Mongo.Database).Str("collection", cfg.Mongo.Collection).Msg("mongodb connected")

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error().Err(err).Msg("redis close failed")
		}
	}()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// --- Audit trail ---
	dispatcher := queue.NewDispatcher(cfg.Jobs.AuditWorkers, mongodb.NewAuditRepository(db, cfg.Mongo.Timeout), log)
	dispatcher.Start(context.WithoutCancel(ctx))
	defer dispatcher.Stop()

	// --- Service ---
	if cfg.Auth.JWTSecret == "" {
		log.Warn().Msg("JWT_SECRET is empty; signed registrations will fail")
	}
	issuer := token.NewIssuer(cfg.Auth.JWTSecret, cfg.AppName, cfg.Auth.JWTTTL)
	svc := service.NewAccountService(service.Deps{
		Repo:     accounts,
		Nonces:   redisdb.NewNonceStore(rdb),
		Verifier: ethereum.NewVerifier(),
		Tokens:   issuer,
		Audit:    dispatcher,
	}, service.Options{
		AppName:  cfg.AppName,
		NonceTTL: cfg.Auth.NonceTTL,
	}, log)

	// --- Background jobs ---
	scheduler := jobs.NewScheduler(log)
	if err := scheduler.ScheduleGaugeRefresh(cfg.Jobs.AccountsGaugeSchedule, accounts, metrics.AccountsRegistered, cfg.Mongo.Timeout); err != nil {
		return fmt.Errorf("schedule gauge refresh: %w", err)
	}
	scheduler.Start()

	// --- HTTP ---
	e := api.NewRouter(cfg, api.Deps{
		Accounts:  svc,
		Tokens:    issuer,
		Readiness: handler.NewHealthDependenciesHandler(db, rdb),
	}, log)

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("http server listening")
		if err := e.Start(cfg.Addr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	scheduler.Stop(shutdownCtx)

	log.Info().Msg("server stopped")
	return nil
}
