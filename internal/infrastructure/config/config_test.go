package config

import (
	"context"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.StoreBackend != BackendRedis || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.SummaryMention != "<@&827121686499295252>" {
		t.Fatalf("unexpected mention %q", cfg.SummaryMention)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Mongo.Database != "health_interviews" {
		t.Fatalf("unexpected backend defaults %+v %+v", cfg.Redis, cfg.Mongo)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", " Memory ")
	t.Setenv("TOKEN_TTL", "90m")
	t.Setenv("HASH_NEW_PASSWORDS", "true")
	t.Setenv("REDIS_PREFIX", "hi:")

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreBackend != BackendMemory || cfg.TokenTTL != 90*time.Minute || !cfg.HashNewPasswords || cfg.Redis.Prefix != "hi:" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("STORE_BACKEND", "sqlite")
	if _, err := Load(context.Background()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	cfg := &Config{Env: "production", StoreBackend: BackendMemory}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error without JWT secret")
	}
	cfg.JWTSecret = "s"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
