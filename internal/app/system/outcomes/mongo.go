package outcomes

import (
	"context"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/timeouts"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"go.uber.org/zap"
)

// RecordReader reads stored outcome records. outcomestore.Store satisfies it.
type RecordReader interface {
	GetByRange(ctx context.Context, rangeDays int) (models.ClinicData, error)
}

// MongoProvider serves records from the clinic_outcomes collection.
type MongoProvider struct {
	records RecordReader
	logger  *zap.Logger
}

// NewMongoProvider creates a provider backed by the given record reader.
func NewMongoProvider(records RecordReader, logger *zap.Logger) *MongoProvider {
	return &MongoProvider{records: records, logger: logger}
}

// DataForRange looks up the stored record for rangeDays. Unsupported ranges
// are rejected before the database is touched; any read failure, including
// a missing record, is reported as ErrDataUnavailable.
func (p *MongoProvider) DataForRange(ctx context.Context, rangeDays int) (models.ClinicData, error) {
	if !models.IsSupportedRange(rangeDays) {
		return models.ClinicData{}, notSupported(rangeDays)
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	d, err := p.records.GetByRange(ctx, rangeDays)
	if err != nil {
		p.logger.Warn("outcome record read failed",
			zap.Int("range_days", rangeDays),
			zap.Error(err))
		return models.ClinicData{}, unavailable(rangeDays, err)
	}
	return d, nil
}
