// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/indexes"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/seeding"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// ConnectDB connects to MongoDB when outcome records come from it.
//
// WAFFLE calls this after configuration is loaded but before EnsureSchema and
// Startup. With data_source = "mock" nothing is connected and DBDeps is empty.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	if appCfg.DataSource != DataSourceMongo {
		logger.Info("using embedded mock outcome data; no database connection")
		return DBDeps{}, nil
	}

	// Configure MongoDB connection pool
	poolCfg := wafflemongo.DefaultPoolConfig()
	if appCfg.MongoMaxPoolSize > 0 {
		poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
	}
	if appCfg.MongoMinPoolSize > 0 {
		poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
	}

	client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
	if err != nil {
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
		zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
	)

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates indexes and seeds missing outcome records.
//
// This runs after ConnectDB succeeds but before Startup. It is a no-op in
// mock mode. Seeding never overwrites a stored record, so records loaded by
// an import job survive restarts.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if !deps.HasMongo() {
		return nil
	}
	db := deps.MongoDatabase

	logger.Info("ensuring database indexes")
	if err := indexes.EnsureAll(ctx, db); err != nil {
		logger.Error("failed to ensure indexes", zap.Error(err))
		return err
	}

	seedCtx, cancel := timeouts.WithTimeout(ctx, timeouts.Seed(), logger, "seed outcome records")
	defer cancel()

	logger.Info("seeding missing outcome records")
	if err := seeding.SeedAll(seedCtx, db, logger); err != nil {
		logger.Error("failed to seed outcome records", zap.Error(err))
		return err
	}

	logger.Info("database schema ensured successfully")
	return nil
}
