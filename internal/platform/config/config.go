package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr               string
	Environment        string
	DatabaseURL        string
	JWTSecret          string
	DataEncryptionKey  string
	FrontendDir        string
	BackendBaseURL     string
	BackendTimeout     time.Duration
	SessionTTL         time.Duration
	SessionRevalidate  time.Duration
	SessionSweep       time.Duration
	RunMigrations      bool
	MigrationsDir      string
	MaxBodyBytes       int64
	RateLimitPerMinute int
	MetricsEnabled     bool
	RolesPageSize      int
	UsersPageSize      int
	SessionsPageSize   int
	ExportDir          string
}

// Load reads an optional .env file (ENV_FILE, default ".env") and then the process environment.
func Load() Config {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		slog.Warn("env file not loaded", "file", envFile, "err", err)
	}

	return Config{
		Addr:               getEnv("APP_ADDR", ":8080"),
		Environment:        getEnv("APP_ENV", "development"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		DataEncryptionKey:  getEnv("DATA_ENCRYPTION_KEY", ""),
		FrontendDir:        getEnv("FRONTEND_DIR", "frontend/dist"),
		BackendBaseURL:     strings.TrimRight(getEnv("BACKEND_BASE_URL", "http://localhost:9898/api"), "/"),
		BackendTimeout:     getEnvDuration("BACKEND_TIMEOUT", 0),
		SessionTTL:         getEnvDuration("SESSION_TTL", 8*time.Hour),
		SessionRevalidate:  getEnvDuration("SESSION_REVALIDATE_INTERVAL", 5*time.Minute),
		SessionSweep:       getEnvDuration("SESSION_SWEEP_INTERVAL", 15*time.Minute),
		RunMigrations:      getEnvBool("RUN_MIGRATIONS", true),
		MigrationsDir:      getEnv("MIGRATIONS_DIR", "migrations"),
		MaxBodyBytes:       int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		MetricsEnabled:     getEnvBool("METRICS_ENABLED", true),
		RolesPageSize:      getEnvInt("ROLES_PAGE_SIZE", 8),
		UsersPageSize:      getEnvInt("USERS_PAGE_SIZE", 8),
		SessionsPageSize:   getEnvInt("SESSIONS_PAGE_SIZE", 10),
		ExportDir:          getEnv("EXPORT_DIR", "storage/exports"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.BackendBaseURL) == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production to protect stored backend tokens")
		}
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.SessionRevalidate < 0 {
		return fmt.Errorf("SESSION_REVALIDATE_INTERVAL must not be negative")
	}
	if c.BackendTimeout < 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must not be negative")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.RolesPageSize <= 0 || c.UsersPageSize <= 0 || c.SessionsPageSize <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	return nil
}
