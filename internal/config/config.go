package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters: main builds exactly
// one instance at startup and passes it to constructors.
type Config struct {
	Port             string
	Env              string
	AdminTokenSecret string

	DB       DatabaseConfig
	Redis    RedisConfig
	Identity IdentityConfig
	Billing  BillingConfig
	Storage  StorageConfig
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig contains Redis connection parameters.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// IdentityConfig contains parameters for the third-party end-user identity
// provider. SessionCookie is the cookie name the provider's frontend SDK sets;
// IssuerURL is used for OIDC discovery and JWKS verification of that cookie.
type IdentityConfig struct {
	IssuerURL     string
	ClientID      string
	SessionCookie string
}

// BillingConfig contains the billing provider webhook secret.
type BillingConfig struct {
	WebhookSecret string
}

// StorageConfig contains S3-compatible object storage parameters for report
// PDF files.
type StorageConfig struct {
	Region          string
	Bucket          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

// IsProduction reports whether the app runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")
	cfg.AdminTokenSecret = getEnv("ADMIN_TOKEN_SECRET", "")

	// Database
	cfg.DB = DatabaseConfig{
		Host:     getEnv("DB_HOST", ""),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", ""),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", ""),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	// Redis
	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", "redis"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}

	// End-user identity provider
	cfg.Identity = IdentityConfig{
		IssuerURL:     getEnv("IDENTITY_ISSUER_URL", ""),
		ClientID:      getEnv("IDENTITY_CLIENT_ID", ""),
		SessionCookie: getEnv("IDENTITY_SESSION_COOKIE", "__session"),
	}

	// Billing provider
	cfg.Billing = BillingConfig{
		WebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),
	}

	// Object storage (report PDFs)
	var err error
	cfg.Storage = StorageConfig{
		Region:          getEnv("S3_REGION", "sa-east-1"),
		Bucket:          getEnv("S3_BUCKET", "fii-portal-reports"),
		Endpoint:        getEnv("S3_ENDPOINT", "https://s3.sa-east-1.amazonaws.com"),
		AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
	if cfg.Storage.PresignTTL, err = parseDurationEnv("S3_PRESIGN_TTL", "15m"); err != nil {
		return nil, fmt.Errorf("invalid S3_PRESIGN_TTL: %w", err)
	}

	// Basic validation for DB parameters.
	if cfg.DB.Host == "" || cfg.DB.User == "" || cfg.DB.Name == "" {
		return nil, errors.New("database configuration incomplete: ensure DB_HOST, DB_USER, and DB_NAME are set")
	}

	if cfg.AdminTokenSecret == "" {
		return nil, errors.New("ADMIN_TOKEN_SECRET must be set for admin authentication")
	}

	if cfg.Billing.WebhookSecret == "" {
		return nil, errors.New("STRIPE_WEBHOOK_SECRET must be set to receive billing webhooks")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}
