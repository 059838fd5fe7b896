package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_EXPIRES_IN", "")
	t.Setenv("DB_MAX_OPEN_CONNS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %s", cfg.JWTExpirationDur)
	}
	if cfg.DBMaxOpenConns != 100 {
		t.Errorf("expected 100 max open conns, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.MigrationsDir != "migrations" {
		t.Errorf("expected migrations dir, got %s", cfg.MigrationsDir)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRES_IN", "90m")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("PIPELINE_API_KEY", "k")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.JWTExpirationDur != 90*time.Minute {
		t.Errorf("expected 90m expiry, got %s", cfg.JWTExpirationDur)
	}
	if cfg.DBMaxOpenConns != 7 {
		t.Errorf("expected 7 max open conns, got %d", cfg.DBMaxOpenConns)
	}
	if cfg.PipelineAPIKey != "k" {
		t.Errorf("expected pipeline key, got %q", cfg.PipelineAPIKey)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "soon")
	t.Setenv("DB_MAX_OPEN_CONNS", "-3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.JWTExpirationDur != 24*time.Hour {
		t.Errorf("expected fallback 24h, got %s", cfg.JWTExpirationDur)
	}
	if cfg.DBMaxOpenConns != 100 {
		t.Errorf("expected fallback 100, got %d", cfg.DBMaxOpenConns)
	}
}
