// Package charts builds Chart.js configuration objects for the clinic
// outcomes dashboard.
//
// The server owns the data, colors, and formatting rules; the browser only
// draws. Configurations are plain structs that marshal to the JSON shape
// Chart.js expects. Callbacks cannot travel as JSON, so each configuration
// carries a Format descriptor that assets/js/dashboard.js turns into the
// datalabels formatter and tooltip label callbacks.
package charts

import (
	"strconv"

	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
)

// Time in range bucket labels and colors, lowest glucose band first.
var timeInRangeBuckets = []struct {
	Label string
	Color string
}{
	{"40-54", "#F44336"},
	{"54-70", "#FF9800"},
	{"70-180", "#4CAF50"},
	{"180-240", "#2196F3"},
	{"240-400", "#9C27B0"},
}

// GMI slice labels and colors.
var (
	gmiLabels = []string{"Below Range", "In Range", "Above Range"}
	gmiColors = []string{"#F4694D", "#5DBB5B", "#F8B76C"}
)

const (
	// TimeInRangeCategory is the single category every bar dataset stacks into.
	TimeInRangeCategory = "Time in Range"

	// StackID groups the time in range datasets into one stacked bar.
	StackID = "1"

	labelColor = "#fff"
)

// Format describes how values are rendered on chart labels and tooltips.
type Format struct {
	Suffix string `json:"suffix"`
}

// PercentFormat renders values as "<value>%".
var PercentFormat = Format{Suffix: "%"}

// Value renders v according to the format.
func (f Format) Value(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + f.Suffix
}

// Tooltip renders a hover label of the form "<label>: <value><suffix>".
func (f Format) Tooltip(label string, v float64) string {
	return label + ": " + f.Value(v)
}

// FormatPercent renders v as a percentage label, e.g. 68 -> "68%", 7.5 -> "7.5%".
func FormatPercent(v float64) string {
	return PercentFormat.Value(v)
}

// TooltipLabel renders a percentage tooltip, e.g. ("70-180", 68) -> "70-180: 68%".
func TooltipLabel(label string, v float64) string {
	return PercentFormat.Tooltip(label, v)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Configuration shapes                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// BarDataset is one stacked segment of the time in range bar.
type BarDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	Stack           string    `json:"stack"`
}

// BarData is the Chart.js "data" block for the time in range chart.
type BarData struct {
	Labels   []string     `json:"labels"`
	Datasets []BarDataset `json:"datasets"`
}

// PieDataset is the single dataset of the GMI pie.
type PieDataset struct {
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
}

// PieData is the Chart.js "data" block for the GMI chart.
type PieData struct {
	Labels   []string     `json:"labels"`
	Datasets []PieDataset `json:"datasets"`
}

// Axis configures one cartesian axis.
type Axis struct {
	Stacked bool `json:"stacked"`
	Display bool `json:"display"`
}

// Legend configures the chart legend.
type Legend struct {
	Display  bool   `json:"display"`
	Position string `json:"position,omitempty"`
}

// Tooltip configures hover tooltips.
type Tooltip struct {
	Position string `json:"position,omitempty"`
}

// Font configures label text.
type Font struct {
	Weight string `json:"weight"`
}

// DataLabels configures the chartjs-plugin-datalabels on-chart labels.
type DataLabels struct {
	Anchor string `json:"anchor"`
	Align  string `json:"align"`
	Color  string `json:"color"`
	Font   Font   `json:"font"`
}

// Plugins groups plugin options.
type Plugins struct {
	Legend     Legend     `json:"legend"`
	Tooltip    Tooltip    `json:"tooltip"`
	DataLabels DataLabels `json:"datalabels"`
}

// Options is the Chart.js "options" block.
type Options struct {
	Responsive bool            `json:"responsive"`
	IndexAxis  string          `json:"indexAxis,omitempty"`
	Scales     map[string]Axis `json:"scales,omitempty"`
	Plugins    Plugins         `json:"plugins"`
}

// BarConfig is a complete bar chart configuration.
type BarConfig struct {
	Type    string   `json:"type"`
	Data    *BarData `json:"data"`
	Options Options  `json:"options"`
	Format  Format   `json:"format"`
}

// PieConfig is a complete pie chart configuration.
type PieConfig struct {
	Type    string   `json:"type"`
	Data    *PieData `json:"data"`
	Options Options  `json:"options"`
	Format  Format   `json:"format"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| Builders                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// TimeInRange builds the stacked time in range bar chart: five datasets, one
// per bucket, in fixed order and color, all stacked into a single category.
func TimeInRange(d models.ClinicData) BarConfig {
	values := []float64{d.Range40_54, d.Range54_70, d.Range70_180, d.Range180_240, d.Range240_400}

	data := &BarData{
		Labels:   []string{TimeInRangeCategory},
		Datasets: make([]BarDataset, len(timeInRangeBuckets)),
	}
	for i, b := range timeInRangeBuckets {
		data.Datasets[i] = BarDataset{
			Label:           b.Label,
			Data:            []float64{values[i]},
			BackgroundColor: b.Color,
			Stack:           StackID,
		}
	}

	return BarConfig{
		Type: "bar",
		Data: data,
		Options: Options{
			Responsive: true,
			IndexAxis:  "x",
			Scales: map[string]Axis{
				"x": {Stacked: true, Display: false},
				"y": {Stacked: true, Display: false},
			},
			Plugins: Plugins{
				Legend:     Legend{Display: false},
				Tooltip:    Tooltip{Position: "nearest"},
				DataLabels: centeredLabels(),
			},
		},
		Format: PercentFormat,
	}
}

// GMI builds the GMI pie chart: one dataset with below/in/above slices.
func GMI(d models.ClinicData) PieConfig {
	labels := make([]string, len(gmiLabels))
	copy(labels, gmiLabels)
	colors := make([]string, len(gmiColors))
	copy(colors, gmiColors)

	return PieConfig{
		Type: "pie",
		Data: &PieData{
			Labels: labels,
			Datasets: []PieDataset{{
				Data:            []float64{d.GMIBelow, d.GMIInRange, d.GMIAbove},
				BackgroundColor: colors,
			}},
		},
		Options: Options{
			Responsive: true,
			Plugins: Plugins{
				Legend:     Legend{Display: false, Position: "bottom"},
				DataLabels: centeredLabels(),
			},
		},
		Format: PercentFormat,
	}
}

func centeredLabels() DataLabels {
	return DataLabels{
		Anchor: "center",
		Align:  "center",
		Color:  labelColor,
		Font:   Font{Weight: "bold"},
	}
}

// TooltipLabels returns the tooltip text for every dataset in the bar chart,
// in dataset order. Used by the printable view, which has no hover.
func (c BarConfig) TooltipLabels() []string {
	if c.Data == nil {
		return nil
	}
	out := make([]string, 0, len(c.Data.Datasets))
	for _, ds := range c.Data.Datasets {
		var v float64
		if len(ds.Data) > 0 {
			v = ds.Data[0]
		}
		out = append(out, c.Format.Tooltip(ds.Label, v))
	}
	return out
}

// TooltipLabels returns the tooltip text for every slice in the pie chart.
func (c PieConfig) TooltipLabels() []string {
	if c.Data == nil || len(c.Data.Datasets) == 0 {
		return nil
	}
	ds := c.Data.Datasets[0]
	out := make([]string, 0, len(ds.Data))
	for i, v := range ds.Data {
		label := ""
		if i < len(c.Data.Labels) {
			label = c.Data.Labels[i]
		}
		out = append(out, c.Format.Tooltip(label, v))
	}
	return out
}
