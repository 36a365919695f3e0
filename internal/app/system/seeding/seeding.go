// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"fmt"
	"sort"

	outcomestore "github.com/dalemusser/clinicoutcomes/internal/app/store/outcomes"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/outcomes"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if err := seedOutcomes(ctx, db, logger); err != nil {
		return err
	}
	return nil
}

// seedOutcomes writes the built-in outcome fixtures for every range that has
// no record yet. Existing records are never overwritten.
func seedOutcomes(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	store := outcomestore.New(db)

	fixtures, err := outcomes.Fixtures()
	if err != nil {
		logger.Error("failed to load outcome fixtures", zap.Error(err))
		return err
	}

	ranges := make([]int, 0, len(fixtures))
	for days := range fixtures {
		ranges = append(ranges, days)
	}
	sort.Ints(ranges)

	for _, days := range ranges {
		exists, err := store.Exists(ctx, days)
		if err != nil {
			logger.Error("failed to check if outcome record exists",
				zap.Int("range_days", days),
				zap.Error(err))
			return err
		}
		if exists {
			continue
		}
		if err := store.Upsert(ctx, days, fixtures[days]); err != nil {
			logger.Error("failed to seed outcome record",
				zap.Int("range_days", days),
				zap.Error(err))
			return err
		}
		logger.Info("seeded outcome record", zap.Int("range_days", days))
	}

	return checkCoverage(ctx, store, logger)
}

// checkCoverage fails when a supported range still has no stored record,
// so the dashboard never starts against a collection it cannot serve.
func checkCoverage(ctx context.Context, store *outcomestore.Store, logger *zap.Logger) error {
	stored, err := store.Ranges(ctx)
	if err != nil {
		logger.Error("failed to list stored outcome ranges", zap.Error(err))
		return err
	}

	have := make(map[int]bool, len(stored))
	for _, d := range stored {
		have[d] = true
	}
	var missing []int
	for _, d := range models.SupportedRanges() {
		if !have[d] {
			missing = append(missing, d)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("outcome records missing for ranges %v", missing)
	}

	logger.Info("outcome records ready", zap.Ints("ranges", stored))
	return nil
}
