// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	QUILL_HOST="0.0.0.0"
//	QUILL_PORT="8080"
//	QUILL_HEALTH_PORT="9090"
//	QUILL_READ_TIMEOUT="15s"
//	QUILL_WRITE_TIMEOUT="15s"
//
// Room store settings:
//
//	QUILL_STORE_TYPE="hosted"  # hosted, postgres
//	QUILL_ROOMS_URL="https://api.liveblocks.io"
//	QUILL_ROOMS_SECRET_KEY="sk_..."
//	QUILL_POSTGRES_URL="postgres://localhost/quill"
//
// Directory settings:
//
//	QUILL_DIRECTORY_URL="https://api.clerk.com"
//	QUILL_DIRECTORY_SECRET_KEY="sk_..."
//	QUILL_DIRECTORY_CACHE_SIZE="1024"
//
// Identity settings:
//
//	QUILL_OIDC_ENABLED="true"
//	QUILL_OIDC_ISSUER_URL="https://issuer.example.com"
//	QUILL_OIDC_CLIENT_ID="quill"
//
// View cache settings:
//
//	QUILL_REDIS_URL="redis://localhost:6379"
//
// Observability settings:
//
//	QUILL_LOG_LEVEL="info"  # debug, info, warn, error
//	QUILL_METRICS_ENABLED="true"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Store: %s\n", cfg.Rooms.StoreType)
//	fmt.Printf("Log level: %s\n", cfg.Observability.LogLevel)
//
// # Related Packages
//
//   - pkg/rooms: Uses room store configuration
//   - pkg/observability: Uses observability configuration
package config
