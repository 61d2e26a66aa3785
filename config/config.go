package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// DomainName is the public host used when building short links,
	// e.g. "foodgram.example.org".
	DomainName string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Media storage: when S3Bucket is empty, decoded images are
	// written under MediaDir instead.
	S3Bucket  string
	AWSRegion string
	MediaDir  string
	MediaURL  string
}

// LoadConfig creates a new Config instance with values from environment
// variables, falling back to Docker secrets for sensitive fields.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8000"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),
		DomainName: getEnv("DOMAIN_NAME", "localhost:8000"),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnvOrSecret("DB_USER", "db_user"),
		DBName:    getEnv("DB_NAME", "foodgram"),
		DBSSLMode: getEnv("DB_SSL_MODE", "disable"),

		RedisHost: getEnv("REDIS_HOST", "localhost"),
		RedisPort: getEnv("REDIS_PORT", "6379"),
		RedisURL:  os.Getenv("REDIS_URL"),
		RedisDB:   0,

		S3Bucket:  os.Getenv("S3_BUCKET_NAME"),
		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		MediaDir:  getEnv("MEDIA_DIR", "media"),
		MediaURL:  getEnv("MEDIA_URL", "/media/"),
	}

	cfg.DBPassword = getEnvOrSecret("DB_PASSWORD", "db_password")
	cfg.RedisPassword = getEnvOrSecret("REDIS_PASSWORD", "redis_password")
	cfg.JWTSecret = getEnvOrSecret("JWT_SECRET", "jwt_secret")

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable or the fallback.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvOrSecret prefers the environment variable and falls back to a
// Docker secret of the given name.
func getEnvOrSecret(key, secret string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return readSecret(secret)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
