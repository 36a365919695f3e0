// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// Data sources for clinic outcome records.
const (
	DataSourceMock  = "mock"
	DataSourceMongo = "mongo"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP ports,
// TLS, logging, CORS, and request limits. AppConfig carries what is
// specific to the outcomes dashboard: where records come from, the state
// store defaults, cookie secrets, and branding.
type AppConfig struct {
	// Outcome records: "mock" serves the embedded fixtures, "mongo" reads
	// the clinic_outcomes collection.
	DataSource string

	// MongoDB connection configuration (used only when DataSource is "mongo")
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// State store
	DefaultRange int // Range selected before anyone picks one (default: 30)
	HistorySize  int // Applied actions kept for /api/outcomes/history (default: 25)

	// Background refresh of the selected range. Zero disables it.
	RefreshInterval time.Duration

	// Backend timeouts
	PingTimeout time.Duration // Health check ping (default: 2s)
	ReadTimeout time.Duration // Single outcome record read (default: 5s)
	SeedTimeout time.Duration // Startup fixture seeding (default: 30s)

	// Session cookie used for flash messages
	SessionKey  string // Secret key for signing session cookies (must be strong in production)
	SessionName string // Cookie name (default: clinicoutcomes-session)

	// CSRF protection configuration
	CSRFKey string // Secret key for CSRF token signing (32 bytes, must be strong in production)

	// Comma-separated origins allowed to read /api/outcomes. Empty allows any.
	APIAllowedOrigins string

	// Branding
	SiteName         string // Header title (default: Clinic Outcomes)
	ClinicNoticeHTML string // Optional banner under the header, sanitized before display
	FooterHTML       string // Optional footer, sanitized before display

	// Expose Prometheus metrics at /metrics
	MetricsEnabled bool
}
