package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quillhq/quill/pkg/observability"
)

// Store backends for document rooms
const (
	StoreHosted   = "hosted"
	StorePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Rooms store configuration
	Rooms RoomsConfig

	// Directory (user lookup) configuration
	Directory DirectoryConfig

	// Identity (OIDC) configuration
	Identity IdentityConfig

	// Views (Redis invalidation) configuration
	Views ViewsConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// RoomsConfig selects and configures the room store backend
type RoomsConfig struct {
	// StoreType is "hosted" (HTTP backend) or "postgres" (self-hosted)
	StoreType string

	// Hosted backend
	BaseURL   string
	SecretKey string
	Timeout   time.Duration

	// Self-hosted backend
	PostgresURL string
}

// DirectoryConfig configures the user directory client
type DirectoryConfig struct {
	BaseURL   string
	SecretKey string
	CacheSize int
	Timeout   time.Duration
}

// IdentityConfig configures OIDC token verification
type IdentityConfig struct {
	Enabled   bool
	IssuerURL string
	ClientID  string
}

// ViewsConfig configures view invalidation
type ViewsConfig struct {
	RedisURL string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("QUILL_HOST", "0.0.0.0"),
			Port:            getEnv("QUILL_PORT", "8080"),
			ReadTimeout:     getEnvDuration("QUILL_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvDuration("QUILL_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:     getEnvDuration("QUILL_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: getEnvDuration("QUILL_SHUTDOWN_TIMEOUT", 30*time.Second),
			HealthPort:      getEnv("QUILL_HEALTH_PORT", "9090"),
		},
		Rooms: RoomsConfig{
			StoreType:   getEnv("QUILL_STORE_TYPE", StoreHosted),
			BaseURL:     getEnv("QUILL_ROOMS_URL", "https://api.liveblocks.io"),
			SecretKey:   getEnv("QUILL_ROOMS_SECRET_KEY", ""),
			Timeout:     getEnvDuration("QUILL_ROOMS_TIMEOUT", 10*time.Second),
			PostgresURL: getEnv("QUILL_POSTGRES_URL", ""),
		},
		Directory: DirectoryConfig{
			BaseURL:   getEnv("QUILL_DIRECTORY_URL", "https://api.clerk.com"),
			SecretKey: getEnv("QUILL_DIRECTORY_SECRET_KEY", ""),
			CacheSize: getEnvInt("QUILL_DIRECTORY_CACHE_SIZE", 1024),
			Timeout:   getEnvDuration("QUILL_DIRECTORY_TIMEOUT", 5*time.Second),
		},
		Identity: IdentityConfig{
			Enabled:   getEnvBool("QUILL_OIDC_ENABLED", false),
			IssuerURL: getEnv("QUILL_OIDC_ISSUER_URL", ""),
			ClientID:  getEnv("QUILL_OIDC_CLIENT_ID", ""),
		},
		Views: ViewsConfig{
			RedisURL: getEnv("QUILL_REDIS_URL", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:       parseLogLevel(getEnv("QUILL_LOG_LEVEL", "info")),
			MetricsEnabled: getEnvBool("QUILL_METRICS_ENABLED", true),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}

	switch c.Rooms.StoreType {
	case StoreHosted:
		if c.Rooms.BaseURL == "" {
			return fmt.Errorf("rooms URL is required for hosted store")
		}
		if c.Rooms.SecretKey == "" {
			return fmt.Errorf("rooms secret key is required for hosted store")
		}
	case StorePostgres:
		if c.Rooms.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for postgres store")
		}
	default:
		return fmt.Errorf("invalid store type: %s (must be hosted or postgres)", c.Rooms.StoreType)
	}

	if c.Directory.BaseURL == "" {
		return fmt.Errorf("directory URL is required")
	}
	if c.Directory.CacheSize <= 0 {
		return fmt.Errorf("directory cache size must be positive")
	}

	if c.Identity.Enabled {
		if c.Identity.IssuerURL == "" {
			return fmt.Errorf("OIDC issuer URL is required when OIDC is enabled")
		}
		if c.Identity.ClientID == "" {
			return fmt.Errorf("OIDC client ID is required when OIDC is enabled")
		}
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
