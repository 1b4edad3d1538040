package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StorageDriverLocal = "local"
	StorageDriverR2    = "r2"
)

// Config holds all configuration parameters of the portal.
type Config struct {
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	SessionSecret string
	ServerPort    int
	Production    bool

	StorageDriver string
	UploadDir     string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads configuration from the environment. A .env file is loaded if
// present, which is convenient for local development but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "pickleball"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		Production:    os.Getenv("APP_ENV") == "production",

		StorageDriver: getEnv("STORAGE_DRIVER", StorageDriverLocal),
		UploadDir:     getEnv("UPLOAD_DIR", "public/uploads"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is not set")
	}

	dbPort, err := parsePort(getEnv("DB_PORT", "5432"), "DB_PORT")
	if err != nil {
		return nil, err
	}
	cfg.DBPort = dbPort

	serverPort, err := parsePort(getEnv("SERVER_PORT", "8080"), "SERVER_PORT")
	if err != nil {
		return nil, err
	}
	cfg.ServerPort = serverPort

	switch cfg.StorageDriver {
	case StorageDriverLocal:
	case StorageDriverR2:
		if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" ||
			cfg.R2BucketName == "" || cfg.R2PublicBaseURL == "" {
			return nil, fmt.Errorf("STORAGE_DRIVER=r2 requires R2_ACCOUNT_ID, R2_ACCESS_KEY_ID, R2_SECRET_ACCESS_KEY, R2_BUCKET_NAME and R2_PUBLIC_BASE_URL")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (expected %q or %q)", cfg.StorageDriver, StorageDriverLocal, StorageDriverR2)
	}

	return cfg, nil
}

// DatabaseURL assembles a lib/pq DSN from the discrete DB_* variables.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPassword),
		c.DBHost,
		c.DBPort,
		c.DBName,
		c.DBSSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePort(value, name string) (int, error) {
	port, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%s must be between 1 and 65535, got %d", name, port)
	}
	return port, nil
}
