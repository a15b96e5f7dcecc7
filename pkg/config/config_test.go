package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/chatrapathi4/KLH-LOST-FOUND-17-10-2025/pkg/config"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id.apps.googleusercontent.com")
	t.Setenv("JWT_SIGNING_KEY", "test-signing-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != "5000" {
		t.Fatalf("expected default port 5000, got %s", cfg.Server.Port)
	}
	if cfg.Google.AllowedDomain != "klh.edu.in" {
		t.Fatalf("expected default domain klh.edu.in, got %s", cfg.Google.AllowedDomain)
	}
	if cfg.JWT.ExpirationTime != 24*time.Hour {
		t.Fatalf("expected 24h expiration, got %v", cfg.JWT.ExpirationTime)
	}
	if cfg.Database.Name != "lostfound_db" {
		t.Fatalf("expected default db name lostfound_db, got %s", cfg.Database.Name)
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("ALLOWED_EMAIL_DOMAIN", "example.edu")
	t.Setenv("JWT_EXPIRATION", "1h")
	t.Setenv("DB_MAX_OPEN_CONNS", "5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Google.AllowedDomain != "example.edu" {
		t.Fatalf("expected domain example.edu, got %s", cfg.Google.AllowedDomain)
	}
	if cfg.JWT.ExpirationTime != time.Hour {
		t.Fatalf("expected 1h expiration, got %v", cfg.JWT.ExpirationTime)
	}
	if cfg.Database.MaxOpenConns != 5 {
		t.Fatalf("expected 5 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Run("missing client id", func(t *testing.T) {
		t.Setenv("GOOGLE_CLIENT_ID", "")
		t.Setenv("JWT_SIGNING_KEY", "key")
		_, err := config.Load()
		if err == nil || !strings.Contains(err.Error(), "GOOGLE_CLIENT_ID") {
			t.Fatalf("expected GOOGLE_CLIENT_ID error, got %v", err)
		}
	})

	t.Run("missing signing key", func(t *testing.T) {
		t.Setenv("GOOGLE_CLIENT_ID", "id")
		t.Setenv("JWT_SIGNING_KEY", "")
		_, err := config.Load()
		if err == nil || !strings.Contains(err.Error(), "JWT_SIGNING_KEY") {
			t.Fatalf("expected JWT_SIGNING_KEY error, got %v", err)
		}
	})
}
