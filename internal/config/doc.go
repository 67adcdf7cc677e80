// Package config manages application configuration for the accounts API.
//
// Configuration is layered: built-in defaults, then an optional YAML file
// named by CONFIG_FILE, then environment variables.
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil {
//	    // every problem is reported at once
//	}
//
// # Configuration Groups
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS)
//   - DatabaseConfig: SurrealDB connection; one database per tenant
//   - JWTConfig: token signing settings
//   - TenancyConfig: default tenant and optional allowlist
//   - LimitsConfig: default page size per resource
//   - BatchConfig: concurrency of batch updates
//
// # Environment Variables
//
//	SERVER_PORT          - HTTP server port (default: 8080)
//	DB_HOST, DB_PORT     - SurrealDB endpoint
//	DB_NAMESPACE         - namespace holding the tenant databases
//	DB_MIGRATE           - apply schema on first tenant connection
//	JWT_SECRET           - HMAC secret, at least 32 bytes
//	DEFAULT_TENANT       - tenant used when a request names none (airqo)
//	ALLOWED_TENANTS      - comma-separated allowlist
//	BATCH_CONCURRENCY    - parallel items per batch update
//
// # Config File
//
// The file may set the tenancy, limits and batch sections:
//
//	tenancy:
//	  default: airqo
//	  allowed: [airqo, kcca]
//	limits:
//	  location_histories: 50
package config
