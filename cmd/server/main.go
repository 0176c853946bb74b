// @title           Health Interviews API
// @version         1.0
// @description     Candidate interview scoring: candidates, score schema, custom fields, users and the audit log.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/snimarbadr-source/health-interviews/internal/api"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
	"github.com/snimarbadr-source/health-interviews/internal/core/service"
	"github.com/snimarbadr-source/health-interviews/internal/infrastructure/config"
	"github.com/snimarbadr-source/health-interviews/internal/infrastructure/db/memory"
	"github.com/snimarbadr-source/health-interviews/internal/infrastructure/db/mongo"
	"github.com/snimarbadr-source/health-interviews/internal/infrastructure/db/postgres"
	"github.com/snimarbadr-source/health-interviews/internal/infrastructure/db/redis"
	"github.com/snimarbadr-source/health-interviews/pkg/logger"
)

func main() {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "health-interviews",
		Fields:  map[string]string{"env": cfg.Env, "backend": cfg.StoreBackend},
	})

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret"
		log.Warn().Msg("JWT_SECRET not set, using an insecure development secret")
	}

	kv, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("open store")
	}
	defer closeStore()

	store := service.NewStore(kv, logger.Component("store"))

	seed, err := readSeed(cfg.SeedFile, log)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.SeedFile).Msg("read seed file")
	}
	if _, err := service.NewSeeder(store, logger.Component("seed")).SeedIfNeeded(ctx, seed); err != nil {
		log.Fatal().Err(err).Msg("seed store")
	}

	audit := service.NewAuditService(store, logger.Component("audit"))
	e := api.NewRouter(api.Dependencies{
		Auth:       service.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")),
		Candidates: service.NewCandidateService(store, audit, cfg.SummaryMention, logger.Component("candidates")),
		Users:      service.NewUserService(store, audit, cfg.HashNewPasswords, logger.Component("users")),
		Audit:      audit,
		Fields:     service.NewFieldService(store, audit, logger.Component("fields")),
		Views:      service.NewViewService(store, cfg.SummaryMention, logger.Component("views")),
		KV:         kv,
		Backend:    cfg.StoreBackend,
		JWTSecret:  cfg.JWTSecret,
		Log:        logger.Component("http"),
	})
	e.Server.ReadTimeout = 5 * time.Second
	e.Server.WriteTimeout = 10 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	go func() {
		log.Info().Str("port", cfg.Port).Msg("API started")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown")
	}
	log.Info().Msg("API stopped")
}

// openStore connects the configured backend and returns its KVStore with a
// function releasing the connection.
func openStore(ctx context.Context, cfg *config.Config) (ports.KVStore, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, err
		}
		return redis.NewKVStore(client, cfg.Redis.Prefix), func() { _ = client.Close() }, nil

	case config.BackendMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, nil, err
		}
		return mongo.NewKVStore(db), func() { _ = mongo.Disconnect(client) }, nil

	case config.BackendPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		})
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewKVStore(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}, nil

	default:
		return memory.NewKVStore(), func() {}, nil
	}
}

// readSeed loads the seed document. A missing file seeds an empty store.
func readSeed(path string, log zerolog.Logger) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	doc, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("file", path).Msg("seed file not found, starting empty")
		return nil, nil
	}
	return doc, err
}
