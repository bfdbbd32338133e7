package config

import (
	"testing"
	"time"
)

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MYSQL_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when JWT_SECRET is missing")
	}

	t.Setenv("JWT_SECRET", "secret")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error when MYSQL_DSN is missing")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "user:pass@tcp(localhost:3306)/vocali")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.HTTPPort)
	}
	if cfg.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("expected 15m access TTL, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected 7d refresh TTL, got %v", cfg.RefreshTokenTTL)
	}
	if cfg.CodeTTL != 10*time.Minute {
		t.Fatalf("expected 10m code TTL, got %v", cfg.CodeTTL)
	}
	if !cfg.RefreshChecksAccount {
		t.Fatalf("expected refresh account check enabled by default")
	}
	if cfg.Email.Driver != EmailDriverLog {
		t.Fatalf("expected log email driver, got %q", cfg.Email.Driver)
	}
	if cfg.Storage.Driver != StorageDriverDisk {
		t.Fatalf("expected disk storage driver, got %q", cfg.Storage.Driver)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "dsn")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("AUTH_REFRESH_CHECKS_ACCOUNT", "false")
	t.Setenv("CORS_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("expected 30m access TTL, got %v", cfg.AccessTokenTTL)
	}
	if cfg.RefreshChecksAccount {
		t.Fatalf("expected refresh account check disabled")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[0] != "https://app.example.com" {
		t.Fatalf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadDriverValidation(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MYSQL_DSN", "dsn")

	t.Setenv("EMAIL_DRIVER", EmailDriverResend)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for resend driver without api key")
	}
	t.Setenv("EMAIL_DRIVER", EmailDriverLog)

	t.Setenv("STORAGE_DRIVER", StorageDriverMinio)
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for minio driver without endpoint")
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "value")
	if got := getEnv("TEST_STRING", "default"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
	if got := getEnv("MISSING_STRING", "default"); got != "default" {
		t.Fatalf("expected default, got %q", got)
	}

	t.Setenv("TEST_DURATION", "30")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 30*time.Minute {
		t.Fatalf("expected 30m, got %v", got)
	}
	t.Setenv("TEST_DURATION", "invalid")
	if got := getDurationEnv("TEST_DURATION", 5*time.Minute); got != 5*time.Minute {
		t.Fatalf("expected default duration, got %v", got)
	}

	t.Setenv("TEST_BOOL", "false")
	if got := getBoolEnv("TEST_BOOL", true); got != false {
		t.Fatalf("expected false, got %v", got)
	}
	t.Setenv("TEST_BOOL", "invalid")
	if got := getBoolEnv("TEST_BOOL", true); got != true {
		t.Fatalf("expected default bool, got %v", got)
	}
}
