package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/airqo/platform/api/internal/model"
	"github.com/airqo/platform/api/internal/tenant"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Tenancy  TenancyConfig
	Limits   LimitsConfig
	Batch    BatchConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings. Each tenant gets its
// own database inside Namespace.
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	User      string
	Password  string
	Migrate   bool
}

// JWTConfig holds JWT signing settings
type JWTConfig struct {
	Secret         string
	ExpirationMins int
	Issuer         string
}

// TenancyConfig selects the default tenant and, optionally, the only
// tenants accepted.
type TenancyConfig struct {
	Default string   `yaml:"default"`
	Allowed []string `yaml:"allowed"`
}

// LimitsConfig holds the default page size per resource
type LimitsConfig struct {
	Users             int `yaml:"users"`
	Networks          int `yaml:"networks"`
	Hosts             int `yaml:"hosts"`
	LocationHistories int `yaml:"location_histories"`
	Defaults          int `yaml:"defaults"`
}

// BatchConfig holds batch update settings
type BatchConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// Default returns the built-in configuration before any file or
// environment overrides.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8080",
			Env:            "development",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      "8000",
			Namespace: "airqo",
			User:      "root",
			Password:  "root",
			Migrate:   true,
		},
		JWT: JWTConfig{
			ExpirationMins: 60,
			Issuer:         "airqo-platform",
		},
		Tenancy: TenancyConfig{
			Default: "airqo",
		},
		Limits: LimitsConfig{
			Users:             model.DefaultUserLimit,
			Networks:          model.DefaultNetworkLimit,
			Hosts:             model.DefaultHostLimit,
			LocationHistories: model.DefaultLocationHistoryLimit,
			Defaults:          model.DefaultChartDefaultLimit,
		},
		Batch: BatchConfig{
			Concurrency: 8,
		},
	}
}

// Load builds the configuration: built-in defaults, then the YAML file named
// by CONFIG_FILE (if any), then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFile overlays the tenancy, limits and batch sections of a YAML file.
// Keys absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var overlay struct {
		Tenancy *TenancyConfig `yaml:"tenancy"`
		Limits  *LimitsConfig  `yaml:"limits"`
		Batch   *BatchConfig   `yaml:"batch"`
	}
	// Pre-populate so zero values in the file don't wipe defaults
	tenancy, limits, batch := c.Tenancy, c.Limits, c.Batch
	overlay.Tenancy, overlay.Limits, overlay.Batch = &tenancy, &limits, &batch

	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}

	c.Tenancy, c.Limits, c.Batch = tenancy, limits, batch
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.Env = getEnv("SERVER_ENV", c.Server.Env)
	c.Server.ReadTimeout = getDurationEnv("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getDurationEnv("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)
	c.Server.AllowedOrigins = getSliceEnv("CORS_ALLOWED_ORIGINS", c.Server.AllowedOrigins)

	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnv("DB_PORT", c.Database.Port)
	c.Database.Namespace = getEnv("DB_NAMESPACE", c.Database.Namespace)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Migrate = getBoolEnv("DB_MIGRATE", c.Database.Migrate)

	c.JWT.Secret = getEnv("JWT_SECRET", c.JWT.Secret)
	c.JWT.ExpirationMins = getIntEnv("JWT_EXPIRATION_MINS", c.JWT.ExpirationMins)
	c.JWT.Issuer = getEnv("JWT_ISSUER", c.JWT.Issuer)

	c.Tenancy.Default = getEnv("DEFAULT_TENANT", c.Tenancy.Default)
	c.Tenancy.Allowed = getSliceEnv("ALLOWED_TENANTS", c.Tenancy.Allowed)

	c.Batch.Concurrency = getIntEnv("BATCH_CONCURRENCY", c.Batch.Concurrency)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}

	// JWT validation
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	} else if len(c.JWT.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 bytes"))
	}
	if c.JWT.ExpirationMins <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINS must be positive"))
	}

	// Tenancy validation
	if _, err := tenant.NewResolver(c.Tenancy.Default, c.Tenancy.Allowed); err != nil {
		errs = append(errs, fmt.Errorf("tenancy: %w", err))
	}

	// Limits validation
	for name, v := range map[string]int{
		"users":              c.Limits.Users,
		"networks":           c.Limits.Networks,
		"hosts":              c.Limits.Hosts,
		"location_histories": c.Limits.LocationHistories,
		"defaults":           c.Limits.Defaults,
	} {
		if v <= 0 || v > model.MaxListLimit {
			errs = append(errs, fmt.Errorf("limits.%s must be between 1 and %d, got %d", name, model.MaxListLimit, v))
		}
	}

	if c.Batch.Concurrency <= 0 {
		errs = append(errs, errors.New("BATCH_CONCURRENCY must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
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
