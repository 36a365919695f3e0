// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "CLINICOUTCOMES"

// Secrets shipped as defaults. Production refuses to start with them.
const (
	devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"
	devCSRFKey    = "dev-only-csrf-key-please-change-0123456789"
)

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: data_source, mongo_uri, default_range, etc.
//   - Environment variables: CLINICOUTCOMES_DATA_SOURCE, CLINICOUTCOMES_MONGO_URI, etc.
//   - Command-line flags: --data_source, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "data_source", Default: DataSourceMock, Desc: "Outcome records source: 'mock' (embedded fixtures) or 'mongo'"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "clinicoutcomes", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// State store
	{Name: "default_range", Default: models.DefaultRange, Desc: "Lookback range in days shown before one is chosen (7, 14, 30, or 90)"},
	{Name: "history_size", Default: 25, Desc: "State actions kept for /api/outcomes/history (0 disables)"},
	{Name: "refresh_interval", Default: "0s", Desc: "Reload the selected range on this interval (e.g., 5m); 0 disables"},

	// Backend timeouts
	{Name: "ping_timeout", Default: "2s", Desc: "Health check ping timeout"},
	{Name: "read_timeout", Default: "5s", Desc: "Outcome record read timeout"},
	{Name: "seed_timeout", Default: "30s", Desc: "Startup fixture seeding timeout"},

	// Cookies
	{Name: "session_key", Default: devSessionKey, Desc: "Flash cookie signing key (must be strong in production)"},
	{Name: "session_name", Default: "clinicoutcomes-session", Desc: "Flash cookie name"},
	{Name: "csrf_key", Default: devCSRFKey, Desc: "CSRF token signing key (32+ chars in production)"},

	{Name: "api_allowed_origins", Default: "", Desc: "Comma-separated origins allowed to read /api/outcomes (blank allows any)"},

	// Branding
	{Name: "site_name", Default: models.DefaultSiteName, Desc: "Site name shown in the header"},
	{Name: "clinic_notice_html", Default: "", Desc: "Optional notice banner (HTML, sanitized)"},
	{Name: "footer_html", Default: "", Desc: "Optional footer (HTML, sanitized)"},

	{Name: "metrics_enabled", Default: true, Desc: "Expose Prometheus metrics at /metrics"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, CLINICOUTCOMES_* for app), and
// command-line flags, merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		DataSource: strings.ToLower(strings.TrimSpace(appValues.String("data_source"))),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		DefaultRange:    appValues.Int("default_range"),
		HistorySize:     appValues.Int("history_size"),
		RefreshInterval: appValues.Duration("refresh_interval", 0),

		PingTimeout: appValues.Duration("ping_timeout", 2*time.Second),
		ReadTimeout: appValues.Duration("read_timeout", 5*time.Second),
		SeedTimeout: appValues.Duration("seed_timeout", 30*time.Second),

		SessionKey:  appValues.String("session_key"),
		SessionName: appValues.String("session_name"),
		CSRFKey:     appValues.String("csrf_key"),

		APIAllowedOrigins: appValues.String("api_allowed_origins"),

		SiteName:         appValues.String("site_name"),
		ClinicNoticeHTML: appValues.String("clinic_notice_html"),
		FooterHTML:       appValues.String("footer_html"),

		MetricsEnabled: appValues.Bool("metrics_enabled"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Every problem found is reported together.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	var problems []error

	switch appCfg.DataSource {
	case DataSourceMock:
	case DataSourceMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			problems = append(problems, fmt.Errorf("invalid MongoDB URI: %w", err))
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			problems = append(problems, errors.New("mongo_database is required when data_source is mongo"))
		}
	default:
		problems = append(problems, fmt.Errorf("data_source must be %q or %q, got %q", DataSourceMock, DataSourceMongo, appCfg.DataSource))
	}

	if !models.IsSupportedRange(appCfg.DefaultRange) {
		problems = append(problems, fmt.Errorf("default_range must be one of %v, got %d", models.SupportedRanges(), appCfg.DefaultRange))
	}
	if appCfg.HistorySize < 0 {
		problems = append(problems, fmt.Errorf("history_size must be >= 0, got %d", appCfg.HistorySize))
	}
	if appCfg.RefreshInterval < 0 {
		problems = append(problems, fmt.Errorf("refresh_interval must be >= 0, got %s", appCfg.RefreshInterval))
	}

	if coreCfg != nil && coreCfg.Env == "prod" {
		if appCfg.SessionKey == devSessionKey || len(appCfg.SessionKey) < 32 {
			problems = append(problems, errors.New("session_key must be set to a strong value (32+ chars) in production"))
		}
		if appCfg.CSRFKey == devCSRFKey || len(appCfg.CSRFKey) < 32 {
			problems = append(problems, errors.New("csrf_key must be set to a strong value (32+ chars) in production"))
		}
	}

	return errors.Join(problems...)
}
