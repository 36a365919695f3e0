// internal/app/features/dashboard/types.go
package dashboard

import (
	"github.com/dalemusser/clinicoutcomes/internal/app/system/charts"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/clinicstate"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/flash"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/viewdata"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
)

// RangeOption is one entry of the lookback range selector.
type RangeOption struct {
	Days     int
	Label    string
	Selected bool
	Disabled bool // placeholder for a rejected selected range
}

// LegendItem is one row of a chart legend table. The printable view uses
// these in place of hover tooltips.
type LegendItem struct {
	Label   string
	Color   string
	Value   string
	Tooltip string
}

// ViewModel is everything the dashboard shows, derived from a state snapshot.
type ViewModel struct {
	SelectedRange int
	Ranges        []RangeOption
	Loaded        bool

	ShowingPatients int
	DateRangeText   string
	LastUpdated     string
	AverageGMI      float64
	AverageGMIText  string

	// Chart.js configurations. Nil until the first successful load.
	TimeInRange *charts.BarConfig
	GMI         *charts.PieConfig

	TimeInRangeLegend []LegendItem
	GMILegend         []LegendItem

	// Error is the user-facing message from the most recent failed load.
	Error     string
	ErrorKind string

	Version uint64
}

// pageVM is the template data for the dashboard and print pages.
type pageVM struct {
	viewdata.BaseVM
	ViewModel
	Flash     []flash.Message
	AutoPrint bool
}

// Snapshot is the JSON shape returned by the outcomes API.
type Snapshot struct {
	RequestID     string                   `json:"requestId"`
	SelectedRange int                      `json:"selectedRange"`
	Status        clinicstate.Status       `json:"status"`
	Data          *models.ClinicData       `json:"data"`
	TimeInRange   *charts.BarConfig        `json:"timeInRangeChart"`
	GMI           *charts.PieConfig        `json:"gmiChart"`
	AverageGMI    float64                  `json:"averageGmi"`
	LoadError     *clinicstate.LoadFailure `json:"loadError"`
	Version       uint64                   `json:"version"`
}

// HistoryResponse is the JSON shape of the action log endpoint.
type HistoryResponse struct {
	Count   int                 `json:"count"`
	Entries []clinicstate.Entry `json:"entries"`
}
