package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	Upstream  UpstreamConfig
	Cache     CacheConfig
	Policy    PolicyConfig
	CORS      CORSConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    string `validate:"required,numeric"`
	GinMode string `validate:"oneof=debug release test"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level  string `validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `validate:"oneof=json text"`
}

// UpstreamConfig holds the Rusunawa REST API the source collections are read from
type UpstreamConfig struct {
	BaseURL      string        `validate:"required,url"`
	TenantsPath  string        `validate:"required,startswith=/"`
	BookingsPath string        `validate:"required,startswith=/"`
	RoomsPath    string        `validate:"required,startswith=/"`
	PaymentsPath string        `validate:"required,startswith=/"`
	InvoicesPath string        `validate:"required,startswith=/"`
	Timeout      time.Duration `validate:"gt=0"`
	RetryCount   int           `validate:"gte=0,lte=10"`
	// AuthToken is sent as a bearer token when set
	AuthToken string
}

// CacheConfig holds the source collection cache configuration
type CacheConfig struct {
	Driver        string        `validate:"oneof=memory redis none"`
	TTL           time.Duration `validate:"gte=0"`
	Size          int           `validate:"gte=1"`
	RedisAddr     string        `validate:"required_if=Driver redis"`
	RedisPassword string
	RedisDB       int `validate:"gte=0"`
}

// PolicyConfig holds the reconciliation policies that are deliberately configurable
type PolicyConfig struct {
	// RevenuePreferHigher resolves payment/invoice disagreement with the larger figure
	RevenuePreferHigher bool
	// MissingStatusActive counts tenants without a status as active
	MissingStatusActive bool
	// UnknownWindow is either "current" (fallback) or "reject"
	UnknownWindow   string `validate:"oneof=current reject"`
	DefaultCapacity int    `validate:"gte=1"`
	DuplicateWindow string `validate:"oneof=current this_year last_6_months future all"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins string
}

// SchedulerConfig holds scheduler configuration
type SchedulerConfig struct {
	Enabled                bool
	ReportCronExpression   string `validate:"required_if=Enabled true"`
	SnapshotTimeoutSeconds int    `validate:"gte=1"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// It's okay if .env file doesn't exist
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Upstream: UpstreamConfig{
			BaseURL:      getEnv("UPSTREAM_BASE_URL", "http://localhost:8001/v1"),
			TenantsPath:  getEnv("UPSTREAM_TENANTS_PATH", "/tenants"),
			BookingsPath: getEnv("UPSTREAM_BOOKINGS_PATH", "/bookings"),
			RoomsPath:    getEnv("UPSTREAM_ROOMS_PATH", "/rooms"),
			PaymentsPath: getEnv("UPSTREAM_PAYMENTS_PATH", "/payments"),
			InvoicesPath: getEnv("UPSTREAM_INVOICES_PATH", "/invoices"),
			Timeout:      getEnvAsDuration("UPSTREAM_TIMEOUT", 15*time.Second),
			RetryCount:   getEnvAsInt("UPSTREAM_RETRY_COUNT", 2),
			AuthToken:    getEnv("UPSTREAM_AUTH_TOKEN", ""),
		},
		Cache: CacheConfig{
			Driver:        getEnv("CACHE_DRIVER", "memory"),
			TTL:           getEnvAsDuration("CACHE_TTL", 60*time.Second),
			Size:          getEnvAsInt("CACHE_SIZE", 64),
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},
		Policy: PolicyConfig{
			RevenuePreferHigher: getEnvAsBool("POLICY_REVENUE_PREFER_HIGHER", true),
			MissingStatusActive: getEnvAsBool("POLICY_MISSING_STATUS_ACTIVE", true),
			UnknownWindow:       getEnv("POLICY_UNKNOWN_WINDOW", "current"),
			DefaultCapacity:     getEnvAsInt("POLICY_DEFAULT_CAPACITY", 4),
			DuplicateWindow:     getEnv("POLICY_DUPLICATE_WINDOW", "current"),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001,http://127.0.0.1:3000,http://127.0.0.1:3001"),
		},
		Scheduler: SchedulerConfig{
			Enabled:                getEnvAsBool("REPORT_SCHEDULER_ENABLED", true),
			ReportCronExpression:   getEnv("REPORT_CRON_EXPRESSION", "0 */15 * * * *"),
			SnapshotTimeoutSeconds: getEnvAsInt("REPORT_SNAPSHOT_TIMEOUT_SECONDS", 60),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the struct tags of every section
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// AllowedOriginList splits the comma separated origin list
func (c *CORSConfig) AllowedOriginList() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("30s") or plain seconds ("30")
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
