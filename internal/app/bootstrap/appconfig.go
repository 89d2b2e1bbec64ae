// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for PlacementHub.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig handles
// framework-level settings (ports, TLS, logging, CORS); AppConfig is
// everything specific to this application.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: placementhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "placementhub/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Public origins
	BaseURL     string // This service's public origin, used in invite links and OAuth redirects
	FrontendURL string // The web frontend's origin, used for post-OAuth redirects

	// External AI backend (summarization, eligibility, planner)
	AIBackendURL string

	// Google OAuth configuration
	GoogleClientID     string
	GoogleClientSecret string

	// Audit logging settings ("all", "db", "log", or "off" per category)
	AuditLogAuth  string
	AuditLogAdmin string

	// Admin bootstrap: user id promoted to ADMIN on startup (blank to skip)
	AdminUserID string
}
