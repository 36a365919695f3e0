// internal/app/bootstrap/shutdown.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Shutdown is invoked during WAFFLE's shutdown phase, after the HTTP server
// has stopped accepting requests and in-flight requests have drained.
//
// It stops the background refresh job, detaches the selected-range logger,
// and disconnects MongoDB when one was connected. The context carries the
// shutdown deadline. The first error is returned; later ones are logged.
func Shutdown(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	var firstErr error

	if current != nil {
		// Stop background task runner with context timeout
		if current.runner != nil {
			logger.Info("stopping background task runner")
			if err := current.runner.Stop(ctx); err != nil {
				logger.Warn("background task runner did not stop cleanly", zap.Error(err))
				firstErr = err
			}
		}
		if current.unsubscribe != nil {
			current.unsubscribe()
		}
	}

	// Disconnect MongoDB client
	if deps.MongoClient != nil {
		logger.Info("disconnecting MongoDB client")
		if err := deps.MongoClient.Disconnect(ctx); err != nil {
			logger.Error("MongoDB disconnect failed", zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
