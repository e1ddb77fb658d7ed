package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gabstaudt/churrascaria-api/internal/config"
	"github.com/Gabstaudt/churrascaria-api/internal/infra"
	"github.com/Gabstaudt/churrascaria-api/internal/repository"
	"github.com/Gabstaudt/churrascaria-api/internal/router"
	"github.com/Gabstaudt/churrascaria-api/internal/service"
	"github.com/Gabstaudt/churrascaria-api/internal/token"
	"github.com/Gabstaudt/churrascaria-api/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	// Credential store: Postgres when configured, in-memory otherwise
	var db *gorm.DB
	var repo repository.UsuarioRepository
	if cfg.DatabaseURL != "" {
		db, err = infra.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to postgres")
		}
		repo = repository.NewUsuarioRepository(db)
	} else {
		log.Info().Msg("no DATABASE_URL — using in-memory credential store")
		repo = repository.NewMemoriaRepository()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Login events: Redis-queued worker pool when configured, in-process otherwise
	var rdb *redis.Client
	var notifier service.LoginNotifier
	if cfg.RedisURL != "" {
		rdb, err = infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		notifier = worker.NewDispatcher(rdb)
		handlers := &worker.Handlers{Logins: worker.NewLoginWorker(repo)}
		worker.StartWorkerPool(ctx, rdb, handlers, cfg.WorkerPoolSize)
	} else {
		notifier = worker.NewLocalNotifier(repo)
	}

	issuer := token.NewIssuer(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	// Demo staff accounts (admin/admin123, caixa/caixa123) in development
	if cfg.Env != "production" {
		if err := service.SeedDemo(ctx, repo); err != nil {
			log.Fatal().Err(err).Msg("failed to seed demo users")
		}
	}

	r := router.New(cfg, repo, issuer, notifier, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("churrascaria-api listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
