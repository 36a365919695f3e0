package outcomes

import (
	"errors"
	"fmt"
)

// Error kinds returned by providers. Match with errors.Is.
var (
	// ErrRangeNotSupported means the requested lookback range is not offered.
	ErrRangeNotSupported = errors.New("range not supported")

	// ErrDataUnavailable means the backend failed or holds no record for the range.
	ErrDataUnavailable = errors.New("outcome data unavailable")
)

// RangeError records the range that failed and why.
type RangeError struct {
	Range int
	Kind  error // ErrRangeNotSupported or ErrDataUnavailable
	Err   error // underlying cause, may be nil
}

func (e *RangeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d-day range: %v: %v", e.Range, e.Kind, e.Err)
	}
	return fmt.Sprintf("%d-day range: %v", e.Range, e.Kind)
}

// Is matches the error kind so callers can test with errors.Is(err, ErrRangeNotSupported).
func (e *RangeError) Is(target error) bool {
	return target == e.Kind
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

func notSupported(days int) error {
	return &RangeError{Range: days, Kind: ErrRangeNotSupported}
}

func unavailable(days int, cause error) error {
	return &RangeError{Range: days, Kind: ErrDataUnavailable, Err: cause}
}

// Kind returns a short machine-readable name for a provider error:
// "range_not_supported", "data_unavailable", or "unknown".
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrRangeNotSupported):
		return "range_not_supported"
	case errors.Is(err, ErrDataUnavailable):
		return "data_unavailable"
	default:
		return "unknown"
	}
}

// UserMessage returns the text shown to users when a load fails.
func UserMessage(err error, days int) string {
	switch {
	case errors.Is(err, ErrRangeNotSupported):
		return fmt.Sprintf("A %d-day view is not available. Choose 7, 14, 30, or 90 days.", days)
	case errors.Is(err, ErrDataUnavailable):
		return fmt.Sprintf("Outcome data for the %d-day view could not be loaded. Showing the last loaded figures.", days)
	default:
		return "Outcome data could not be loaded."
	}
}
