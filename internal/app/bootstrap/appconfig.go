// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (HTTP ports, TLS, logging level); AppConfig is
// everything specific to CrewHub.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g. mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Group share-code generation
	GroupCodeLength      int // Characters per code (default 9)
	GroupCodeMaxAttempts int // Collision retries before CodeSpaceExhausted

	// Background task expiry sweep
	TaskExpiryInterval time.Duration // How often overdue tasks are swept to expired
}
