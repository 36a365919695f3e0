// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	dashboardfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/clinicoutcomes/internal/app/features/errors"
	"github.com/dalemusser/clinicoutcomes/internal/app/resources"
	outcomestore "github.com/dalemusser/clinicoutcomes/internal/app/store/outcomes"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/clinicstate"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/flash"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/metrics"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/outcomes"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/tasks"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/timeouts"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/viewdata"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// services holds the long-lived application objects built in Startup and
// used by BuildHandler and Shutdown.
type services struct {
	metrics   *metrics.Recorder
	state     *clinicstate.Store
	dashboard *dashboardfeature.Handler
	errLog    *errorsfeature.ErrorLogger
	runner    *tasks.Runner

	unsubscribe func()
}

// current is the services instance for this process.
var current *services

// Startup runs once after DB connections and schema/index setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It registers shared templates, applies timeouts and branding, builds the
// state store and dashboard handler, and starts the background refresh job.
// The dashboard's first data load still happens on the first page view.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.PingTimeout,
		Short: appCfg.ReadTimeout,
		Seed:  appCfg.SeedTimeout,
	})

	viewdata.Init(models.SiteSettings{
		SiteName:   appCfg.SiteName,
		NoticeHTML: appCfg.ClinicNoticeHTML,
		FooterHTML: appCfg.FooterHTML,
	})

	svc, err := newServices(appCfg, deps, coreCfg.Env == "prod", logger)
	if err != nil {
		logger.Error("failed to build services", zap.Error(err))
		return err
	}
	current = svc

	// Start background task runner
	current.runner.Start()
	return nil
}

// newServices wires the provider, metrics, state store, and dashboard handler.
func newServices(appCfg AppConfig, deps DBDeps, secure bool, logger *zap.Logger) (*services, error) {
	provider, err := newProvider(appCfg, deps, logger)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	state := clinicstate.New(appCfg.DefaultRange,
		clinicstate.WithLogger(logger),
		clinicstate.WithMetrics(m),
		clinicstate.WithHistorySize(appCfg.HistorySize),
	)

	// Log every change of the selected range, once per change.
	unsubscribe := clinicstate.SubscribeSelector(state, clinicstate.SelectSelectedRange, func(days int) {
		logger.Info("selected range changed", zap.Int("range_days", days))
	})

	errLog := errorsfeature.NewErrorLogger(logger)
	flashStore := flash.New(appCfg.SessionKey, appCfg.SessionName, secure, logger)
	dash := dashboardfeature.NewHandler(provider, state, flashStore, m, errLog, logger)

	runner := tasks.New(logger)
	runner.Register(tasks.OutcomesRefreshJob(appCfg.RefreshInterval, dash.Refresh))

	logger.Info("clinic outcomes services ready",
		zap.String("data_source", appCfg.DataSource),
		zap.Int("default_range", appCfg.DefaultRange),
		zap.Int("history_size", appCfg.HistorySize),
		zap.Duration("refresh_interval", appCfg.RefreshInterval),
	)

	return &services{
		metrics:     m,
		state:       state,
		dashboard:   dash,
		errLog:      errLog,
		runner:      runner,
		unsubscribe: unsubscribe,
	}, nil
}

// newProvider selects the outcome record source.
func newProvider(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (outcomes.Provider, error) {
	switch appCfg.DataSource {
	case DataSourceMongo:
		if !deps.HasMongo() {
			return nil, fmt.Errorf("data_source %q requires a MongoDB connection", DataSourceMongo)
		}
		return outcomes.NewMongoProvider(outcomestore.New(deps.MongoDatabase), logger), nil
	case DataSourceMock, "":
		p, err := outcomes.NewFixtureProvider()
		if err != nil {
			return nil, fmt.Errorf("load mock outcome fixtures: %w", err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown data_source %q", appCfg.DataSource)
	}
}
