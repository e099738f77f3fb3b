package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Supported values for DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverPgx      = "pgx"
	DriverMemory   = "memory"
)

// Config holds application configuration
type Config struct {
	Port              string
	DBDriver          string
	DBConn            string
	LogLevel          string
	JWTSecret         string
	TokenTTL          time.Duration
	BcryptCost        int
	RequireParentPost bool
	Migrate           bool
	SweepSchedule     string
	FeedTitle         string
	FeedLink          string
}

// NewConfig loads configuration from a local .env file (if any) and environment variables
func NewConfig() (*Config, error) {
	// A missing .env is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", DriverPostgres),
		DBConn:        getEnv("DB_CONN", "host=localhost port=5432 user=test password=test dbname=tweets sslmode=disable"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		SweepSchedule: getEnv("SWEEP_SCHEDULE", "@hourly"),
		FeedTitle:     getEnv("FEED_TITLE", "Latest posts"),
		FeedLink:      getEnv("FEED_LINK", "http://localhost:8080/posts"),
	}

	var err error
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", 10); err != nil {
		return nil, err
	}
	if cfg.RequireParentPost, err = getBool("REQUIRE_PARENT_POST", false); err != nil {
		return nil, err
	}
	if cfg.Migrate, err = getBool("MIGRATE", true); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required values are present and sane
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverPgx:
		if c.DBConn == "" {
			return fmt.Errorf("DB_CONN is required for driver %q", c.DBDriver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	// bcrypt.MinCost and bcrypt.MaxCost
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.BcryptCost)
	}
	return nil
}

// SweepEnabled reports whether the orphan-comment sweep should run. Without REQUIRE_PARENT_POST,
// comments on a missing post are valid rows (the post id may simply not exist yet), so the sweep
// only runs in strict mode.
func (c *Config) SweepEnabled() bool {
	return c.RequireParentPost && c.SweepSchedule != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getInt(key string, defaultVal int) (int, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, defaultVal bool) (bool, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
