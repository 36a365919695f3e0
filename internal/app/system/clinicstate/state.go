// Package clinicstate holds the clinic outcomes dashboard state: the selected
// lookback range and the last successfully loaded outcomes payload.
//
// State changes only through Actions applied by Reduce. Store wraps Reduce
// with a single-writer dispatch loop, ordered listener notification, and a
// short action history.
package clinicstate

import (
	"github.com/dalemusser/clinicoutcomes/internal/app/system/charts"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
)

// Status is the coarse state machine position.
type Status string

const (
	// StatusUninitialized means no data has loaded yet.
	StatusUninitialized Status = "uninitialized"
	// StatusLoaded means data is present. There is no way back to uninitialized.
	StatusLoaded Status = "loaded"
)

// LoadFailure describes the most recent failed load. Data from the last
// successful load is kept alongside it.
type LoadFailure struct {
	Range   int    `json:"range"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// State is an immutable snapshot. Pointer fields are shared between
// snapshots when an action leaves them untouched, so callers must not
// mutate what they point to.
type State struct {
	SelectedRange        int                `json:"selectedRange"`
	Data                 *models.ClinicData `json:"data"`
	TimeInRangeChartData *charts.BarData    `json:"timeInRangeChartData"`
	GMIChartData         *charts.PieData    `json:"gmiChartData"`
	AverageGMI           float64            `json:"averageGmi"`
	LoadError            *LoadFailure       `json:"loadError"`
	Version              uint64             `json:"version"`
}

// Initial returns the starting state: the given range selected, no data.
func Initial(defaultRange int) State {
	return State{SelectedRange: defaultRange}
}

// Status reports where the state sits in the state machine.
func (s State) Status() Status {
	if s.Data == nil {
		return StatusUninitialized
	}
	return StatusLoaded
}

/*─────────────────────────────────────────────────────────────────────────────*
| Actions                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Action type names, as reported by Action.Type.
const (
	TypeUpdateSelectedRange       = "update_selected_range"
	TypeLoadClinicOutcomesSuccess = "load_clinic_outcomes_success"
	TypeLoadClinicOutcomesFailure = "load_clinic_outcomes_failure"
)

// Action is a state transition request.
type Action interface {
	Type() string
}

// UpdateSelectedRange sets the selected range. Data fields are untouched.
type UpdateSelectedRange struct {
	Range int `json:"range"`
}

func (UpdateSelectedRange) Type() string { return TypeUpdateSelectedRange }

// LoadClinicOutcomesSuccess replaces the data, both chart data blocks, and
// the average GMI together, and clears any load error.
type LoadClinicOutcomesSuccess struct {
	Data                 models.ClinicData `json:"data"`
	TimeInRangeChartData *charts.BarData   `json:"timeInRangeChartData"`
	GMIChartData         *charts.PieData   `json:"gmiChartData"`
	AverageGMI           float64           `json:"averageGmi"`
}

func (LoadClinicOutcomesSuccess) Type() string { return TypeLoadClinicOutcomesSuccess }

// LoadClinicOutcomesFailure records a failed load. Previously loaded data
// stays in place.
type LoadClinicOutcomesFailure struct {
	Range   int    `json:"range"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (LoadClinicOutcomesFailure) Type() string { return TypeLoadClinicOutcomesFailure }

/*─────────────────────────────────────────────────────────────────────────────*
| Reducer                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// Reduce applies a to s and returns the next state. It is pure: s is not
// modified and no other state is read. Unknown actions return s unchanged,
// including its Version.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case UpdateSelectedRange:
		s.SelectedRange = act.Range
	case LoadClinicOutcomesSuccess:
		data := act.Data
		s.Data = &data
		s.TimeInRangeChartData = act.TimeInRangeChartData
		s.GMIChartData = act.GMIChartData
		s.AverageGMI = act.AverageGMI
		s.LoadError = nil
	case LoadClinicOutcomesFailure:
		s.LoadError = &LoadFailure{Range: act.Range, Kind: act.Kind, Message: act.Message}
	default:
		return s
	}
	s.Version++
	return s
}

/*─────────────────────────────────────────────────────────────────────────────*
| Selectors                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// SelectState returns the whole snapshot.
func SelectState(s State) State { return s }

// SelectSelectedRange returns the selected range in days.
func SelectSelectedRange(s State) int { return s.SelectedRange }

// SelectData returns the loaded record, or nil before the first load.
func SelectData(s State) *models.ClinicData { return s.Data }

// SelectTimeInRangeChartData returns the time in range chart data block.
func SelectTimeInRangeChartData(s State) *charts.BarData { return s.TimeInRangeChartData }

// SelectGMIChartData returns the GMI chart data block.
func SelectGMIChartData(s State) *charts.PieData { return s.GMIChartData }

// SelectAverageGMI returns the average GMI from the last load.
func SelectAverageGMI(s State) float64 { return s.AverageGMI }

// SelectLoadError returns the most recent load failure, or nil.
func SelectLoadError(s State) *LoadFailure { return s.LoadError }

// SelectStatus returns the state machine position.
func SelectStatus(s State) Status { return s.Status() }
