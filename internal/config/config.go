package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const prodString = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int

	// Booking policy knobs; see internal/booking.Policy.
	WeekendsAllowed     bool
	OpenHour            int
	CloseHour           int
	BlockPendingOverlap bool
	ScopeApprovals      bool
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	cfg := &Config{}

	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	appEnvStr := getEnv("APP_ENV", "dev")
	cfg.IsProduction = appEnvStr == prodString

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parsed as time.Duration (e.g. "15m", "1h").
	ttlStr := getEnv("JWT_ACCESS_TOKEN_TTL", "15m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	// Booking policy. Defaults follow campus rules: no weekends, any hour,
	// pending requests may overlap until one of them is approved.
	cfg.WeekendsAllowed = getEnvAsBool("BOOKING_WEEKENDS_ALLOWED", false)
	cfg.BlockPendingOverlap = getEnvAsBool("BOOKING_BLOCK_PENDING_OVERLAP", false)
	cfg.ScopeApprovals = getEnvAsBool("BOOKING_SCOPE_APPROVALS", false)

	cfg.OpenHour, err = getEnvAsInt("BOOKING_OPEN_HOUR", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_OPEN_HOUR: %w", err)
	}
	cfg.CloseHour, err = getEnvAsInt("BOOKING_CLOSE_HOUR", 0)
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKING_CLOSE_HOUR: %w", err)
	}
	if cfg.OpenHour < 0 || cfg.CloseHour > 24 || (cfg.CloseHour != 0 && cfg.CloseHour <= cfg.OpenHour) {
		return nil, fmt.Errorf("invalid booking hour range %d-%d", cfg.OpenHour, cfg.CloseHour)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise the provided default.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer, returning the
// default when unset and an error when set but not an integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}

	return val, nil
}

// getEnvAsBool retrieves an environment variable as a bool; unparsable
// values fall back to the default.
func getEnvAsBool(key string, defaultValue bool) bool {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}
