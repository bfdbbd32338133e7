package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort             string
	HTTPHost             string
	PublicBaseURL        string
	MySQLDSN             string
	JWTSecret            string
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	CodeTTL              time.Duration
	RefreshChecksAccount bool
	LogLevel             string
	CORSOrigins          []string
	Email                EmailConfig
	Storage              StorageConfig
}

type EmailConfig struct {
	Driver       string
	ResendAPIKey string
	From         string
}

type StorageConfig struct {
	Driver         string
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

const (
	EmailDriverLog    = "log"
	EmailDriverResend = "resend"

	StorageDriverDisk  = "disk"
	StorageDriverMinio = "minio"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		HTTPHost:             getEnv("HTTP_HOST", ""),
		PublicBaseURL:        getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		MySQLDSN:             mysqlDSN,
		JWTSecret:            jwtSecret,
		AccessTokenTTL:       getDurationEnv("ACCESS_TOKEN_TTL_MINUTES", 15*time.Minute),
		RefreshTokenTTL:      getDurationEnv("REFRESH_TOKEN_TTL_MINUTES", 7*24*time.Hour),
		CodeTTL:              getDurationEnv("CODE_TTL_MINUTES", 10*time.Minute),
		RefreshChecksAccount: getBoolEnv("AUTH_REFRESH_CHECKS_ACCOUNT", true),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSOrigins:          getListEnv("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),
		Email: EmailConfig{
			Driver:       getEnv("EMAIL_DRIVER", EmailDriverLog),
			ResendAPIKey: os.Getenv("RESEND_API_KEY"),
			From:         getEnv("EMAIL_FROM", "no-reply@vocali.local"),
		},
		Storage: StorageConfig{
			Driver:         getEnv("STORAGE_DRIVER", StorageDriverDisk),
			UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
			MinioEndpoint:  os.Getenv("MINIO_ENDPOINT"),
			MinioAccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			MinioSecretKey: os.Getenv("MINIO_SECRET_KEY"),
			MinioBucket:    getEnv("MINIO_BUCKET", "audio"),
			MinioUseSSL:    getBoolEnv("MINIO_USE_SSL", false),
		},
	}

	if cfg.Email.Driver == EmailDriverResend && cfg.Email.ResendAPIKey == "" {
		return nil, errors.New("RESEND_API_KEY is required when EMAIL_DRIVER=resend")
	}
	if cfg.Storage.Driver == StorageDriverMinio && cfg.Storage.MinioEndpoint == "" {
		return nil, errors.New("MINIO_ENDPOINT is required when STORAGE_DRIVER=minio")
	}

	return cfg, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
