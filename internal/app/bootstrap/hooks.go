// internal/app/bootstrap/hooks.go
package bootstrap

import (
	"github.com/dalemusser/waffle/app"
)

// Hooks wires this app into the WAFFLE lifecycle.
// Each function is called in order by app.Run, from configuration
// loading through DB setup, one-time startup work, HTTP handler
// construction, and finally graceful shutdown.
var Hooks = app.Hooks[AppConfig, DBDeps]{
	Name:           "clinicoutcomes", // used only for logging/diagnostics
	LoadConfig:     LoadConfig,       // load core + app config
	ValidateConfig: ValidateConfig,   // data source, default range, Mongo URI, secrets
	ConnectDB:      ConnectDB,        // connect to MongoDB when data_source = mongo
	EnsureSchema:   EnsureSchema,     // indexes + fixture seeding (mongo only)
	Startup:        Startup,          // templates, state store, refresh job
	BuildHandler:   BuildHandler,     // build the HTTP router + middleware stack
	Shutdown:       Shutdown,         // stop jobs, disconnect MongoDB
}
