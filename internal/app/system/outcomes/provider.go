// Package outcomes provides clinic outcomes records for a lookback range.
//
// Two providers are available: FixtureProvider serves the embedded mock
// records and is the default; MongoProvider reads the clinic_outcomes
// collection and is selected with data_source = "mongo".
package outcomes

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// Provider returns the outcomes record for a lookback range in days.
//
// Implementations return an error wrapping ErrRangeNotSupported for ranges
// outside models.SupportedRanges and ErrDataUnavailable for backend failures.
// There is no fallback record.
type Provider interface {
	DataForRange(ctx context.Context, rangeDays int) (models.ClinicData, error)
}

//go:embed fixtures/clinic_outcomes.yaml
var fixtureYAML []byte

type fixtureFile struct {
	Records []struct {
		RangeDays int               `yaml:"rangeDays"`
		Data      models.ClinicData `yaml:"data"`
	} `yaml:"records"`
}

// ParseFixtures decodes and validates a fixture document. Every record must
// be for a supported range, appear once, and satisfy ClinicData.Validate.
func ParseFixtures(b []byte) (map[int]models.ClinicData, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	out := make(map[int]models.ClinicData, len(f.Records))
	for _, rec := range f.Records {
		if !models.IsSupportedRange(rec.RangeDays) {
			return nil, fmt.Errorf("fixture for unsupported range %d", rec.RangeDays)
		}
		if _, dup := out[rec.RangeDays]; dup {
			return nil, fmt.Errorf("duplicate fixture for range %d", rec.RangeDays)
		}
		if err := rec.Data.Validate(); err != nil {
			return nil, fmt.Errorf("fixture for range %d: %w", rec.RangeDays, err)
		}
		out[rec.RangeDays] = rec.Data
	}
	return out, nil
}

// Fixtures returns the embedded mock records keyed by range.
func Fixtures() (map[int]models.ClinicData, error) {
	return ParseFixtures(fixtureYAML)
}

// FixtureProvider serves fixed mock records. Lookups are pure: no I/O, no
// randomness, and the same range always yields a field-equal record.
type FixtureProvider struct {
	records map[int]models.ClinicData
}

// NewFixtureProvider returns a provider over the embedded fixture file.
func NewFixtureProvider() (*FixtureProvider, error) {
	recs, err := Fixtures()
	if err != nil {
		return nil, err
	}
	return &FixtureProvider{records: recs}, nil
}

// NewFixtureProviderFrom returns a provider over the given records.
// The map is copied.
func NewFixtureProviderFrom(records map[int]models.ClinicData) *FixtureProvider {
	cp := make(map[int]models.ClinicData, len(records))
	for k, v := range records {
		cp[k] = v
	}
	return &FixtureProvider{records: cp}
}

// DataForRange returns the mock record for rangeDays.
func (p *FixtureProvider) DataForRange(_ context.Context, rangeDays int) (models.ClinicData, error) {
	if !models.IsSupportedRange(rangeDays) {
		return models.ClinicData{}, notSupported(rangeDays)
	}
	d, ok := p.records[rangeDays]
	if !ok {
		return models.ClinicData{}, unavailable(rangeDays, nil)
	}
	return d, nil
}
