package config

import (
	"testing"
	"time"
)

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error when JWT_SECRET is unset")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL_HOURS", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env != "dev" || !cfg.Debug {
		t.Fatalf("got env %q debug %v, want dev debug mode", cfg.Env, cfg.Debug)
	}
	if cfg.Port != 5000 {
		t.Fatalf("got port %d, want 5000", cfg.Port)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("got ttl %v, want 24h", cfg.JWTTTL)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:5173" {
		t.Fatalf("got origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env != "production" || cfg.Debug {
		t.Fatalf("got env %q debug %v", cfg.Env, cfg.Debug)
	}
	if cfg.Port != 8080 {
		t.Fatalf("got port %d", cfg.Port)
	}
	if cfg.JWTTTL != 2*time.Hour {
		t.Fatalf("got ttl %v", cfg.JWTTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("got origins %v", cfg.AllowedOrigins)
	}
}
