package config

import (
	"os"
)

// Config holds all configuration for the portal
type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Cashfree CashfreeConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	HTTPPort string
	BaseURL  string
}

// BackendConfig holds the upstream API configuration
type BackendConfig struct {
	BaseURL string
}

// CashfreeConfig holds payment gateway credentials
type CashfreeConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string // "sandbox" or "production"
}

// SessionConfig holds cookie session configuration
type SessionConfig struct {
	Key string
}

// RedisConfig holds redis connection configuration
type RedisConfig struct {
	URL string
}

// AuthConfig holds the identity providers' authorize endpoints. Empty values
// fall back to the backend-hosted OAuth start URLs.
type AuthConfig struct {
	GoogleAuthorizeURL string
	AppleAuthorizeURL  string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: getEnv("HTTP_PORT", "3000"),
			BaseURL:  getEnv("PORTAL_BASE_URL", "http://localhost:3000"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_URL", "http://localhost:8000"),
		},
		Cashfree: CashfreeConfig{
			ClientID:     getEnv("CASHFREE_CLIENT_ID", ""),
			ClientSecret: getEnv("CASHFREE_CLIENT_SECRET", ""),
			Environment:  getEnv("CASHFREE_ENV", "sandbox"),
		},
		Session: SessionConfig{
			Key: getEnv("SESSION_KEY", "dev-only-session-key"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Auth: AuthConfig{
			GoogleAuthorizeURL: getEnv("GOOGLE_AUTHORIZE_URL", ""),
			AppleAuthorizeURL:  getEnv("APPLE_AUTHORIZE_URL", ""),
		},
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
