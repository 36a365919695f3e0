// internal/domain/models/clinicdata.go
package models

import (
	"fmt"
	"math"
)

// PercentTolerance is the allowed rounding drift when a group of
// percentage buckets is summed.
const PercentTolerance = 0.5

// ClinicData is one clinic-wide outcomes record for a lookback range.
// Values are treated as immutable once returned by a provider.
type ClinicData struct {
	Patients    int    `bson:"patients" json:"patients" yaml:"patients"`
	DateRange   string `bson:"date_range" json:"dateRange" yaml:"dateRange"`
	LastUpdated string `bson:"last_updated" json:"lastUpdated" yaml:"lastUpdated"`

	// Time in range buckets (percent of readings, mg/dL boundaries)
	Range40_54   float64 `bson:"range40_54" json:"range40_54" yaml:"range40_54"`
	Range54_70   float64 `bson:"range54_70" json:"range54_70" yaml:"range54_70"`
	Range70_180  float64 `bson:"range70_180" json:"range70_180" yaml:"range70_180"`
	Range180_240 float64 `bson:"range180_240" json:"range180_240" yaml:"range180_240"`
	Range240_400 float64 `bson:"range240_400" json:"range240_400" yaml:"range240_400"`

	// GMI categories (percent of patients)
	GMIBelow   float64 `bson:"gmi_below" json:"gmiBelow" yaml:"gmiBelow"`
	GMIInRange float64 `bson:"gmi_in_range" json:"gmiInRange" yaml:"gmiInRange"`
	GMIAbove   float64 `bson:"gmi_above" json:"gmiAbove" yaml:"gmiAbove"`

	AverageGMI float64 `bson:"average_gmi" json:"averageGmi" yaml:"averageGmi"`
}

// TimeInRangeTotal sums the five time-in-range buckets.
func (d ClinicData) TimeInRangeTotal() float64 {
	return d.Range40_54 + d.Range54_70 + d.Range70_180 + d.Range180_240 + d.Range240_400
}

// GMITotal sums the three GMI categories.
func (d ClinicData) GMITotal() float64 {
	return d.GMIBelow + d.GMIInRange + d.GMIAbove
}

// Validate checks the record's structural invariants: a non-negative patient
// count and bucket groups that each sum to 100 within PercentTolerance.
func (d ClinicData) Validate() error {
	if d.Patients < 0 {
		return fmt.Errorf("patients must be >= 0, got %d", d.Patients)
	}
	if t := d.TimeInRangeTotal(); math.Abs(t-100) > PercentTolerance {
		return fmt.Errorf("time in range buckets sum to %.2f, want 100", t)
	}
	if t := d.GMITotal(); math.Abs(t-100) > PercentTolerance {
		return fmt.Errorf("GMI categories sum to %.2f, want 100", t)
	}
	return nil
}

// Lookback ranges, in days.
const (
	Range7Days  = 7
	Range14Days = 14
	Range30Days = 30
	Range90Days = 90

	// DefaultRange is the range shown before the user picks one.
	DefaultRange = Range30Days
)

// SupportedRanges returns the lookback ranges the dashboard offers, shortest first.
func SupportedRanges() []int {
	return []int{Range7Days, Range14Days, Range30Days, Range90Days}
}

// IsSupportedRange reports whether days is one of SupportedRanges.
func IsSupportedRange(days int) bool {
	for _, r := range SupportedRanges() {
		if r == days {
			return true
		}
	}
	return false
}

// OutcomeRecord is the stored form of ClinicData in the clinic_outcomes collection.
type OutcomeRecord struct {
	RangeDays int        `bson:"range_days"`
	Data      ClinicData `bson:"data"`
}
