package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	RateLimit         string
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("JWT_EXPIRY_DURATION", "24h")
	v.SetDefault("JWT_ISSUER", "ttb-backend")
	v.SetDefault("RATE_LIMIT", "5-M")

	dbURL := v.GetString("PGSQL_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("PGSQL_URL environment variable is required")
	}
	jwtSecret := v.GetString("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	expiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}

	return &Config{
		DatabaseURL:       dbURL,
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		JWTSecret:         jwtSecret,
		JWTExpiryDuration: expiry,
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		RateLimit:         v.GetString("RATE_LIMIT"),
	}, nil
}
