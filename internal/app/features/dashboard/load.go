// internal/app/features/dashboard/load.go
package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dalemusser/clinicoutcomes/internal/app/system/charts"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/clinicstate"
	"github.com/dalemusser/clinicoutcomes/internal/app/system/outcomes"
	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"go.uber.org/zap"
)

// LoadData fetches outcomes for rangeDays, builds both chart configurations,
// and records the result in the state store: UpdateSelectedRange first, then
// LoadClinicOutcomesSuccess or LoadClinicOutcomesFailure. The returned view
// model reflects the state after both actions. On failure it still carries
// the last good data, plus the error message.
func (h *Handler) LoadData(ctx context.Context, rangeDays int) (ViewModel, error) {
	st, err := h.load(ctx, rangeDays)
	return newViewModel(st), err
}

// load performs LoadData and returns the resulting snapshot.
func (h *Handler) load(ctx context.Context, rangeDays int) (clinicstate.State, error) {
	h.loadMu.Lock()
	defer h.loadMu.Unlock()

	start := h.now()
	data, err := h.provider.DataForRange(ctx, rangeDays)
	elapsed := h.now().Sub(start)

	if err != nil {
		kind := outcomes.Kind(err)
		h.metrics.LoadFinished(rangeDays, kind, elapsed)
		h.logger.Warn("clinic outcomes load failed",
			zap.Int("range_days", rangeDays),
			zap.String("kind", kind),
			zap.Error(err),
		)

		h.state.Dispatch(clinicstate.UpdateSelectedRange{Range: rangeDays})
		st := h.state.Dispatch(clinicstate.LoadClinicOutcomesFailure{
			Range:   rangeDays,
			Kind:    kind,
			Message: outcomes.UserMessage(err, rangeDays),
		})
		return st, err
	}

	tir := charts.TimeInRange(data)
	gmi := charts.GMI(data)

	h.state.Dispatch(clinicstate.UpdateSelectedRange{Range: rangeDays})
	st := h.state.Dispatch(clinicstate.LoadClinicOutcomesSuccess{
		Data:                 data,
		TimeInRangeChartData: tir.Data,
		GMIChartData:         gmi.Data,
		AverageGMI:           data.AverageGMI,
	})
	h.metrics.LoadFinished(rangeDays, "ok", elapsed)
	h.logger.Debug("clinic outcomes loaded",
		zap.Int("range_days", rangeDays),
		zap.Int("patients", data.Patients),
		zap.Duration("elapsed", elapsed),
	)
	return st, nil
}

// EnsureLoaded runs the initial load for the selected range if nothing has
// loaded yet. Otherwise it returns the current state without fetching.
func (h *Handler) EnsureLoaded(ctx context.Context) (ViewModel, error) {
	st := h.state.State()
	if st.Status() == clinicstate.StatusLoaded {
		return newViewModel(st), nil
	}
	return h.LoadData(ctx, st.SelectedRange)
}

// Refresh reloads the currently selected range. A selected range the
// provider rejects is left alone so the failure is not recorded again on
// every pass.
func (h *Handler) Refresh(ctx context.Context) error {
	days := clinicstate.Select(h.state, clinicstate.SelectSelectedRange)
	if !models.IsSupportedRange(days) {
		return nil
	}
	_, err := h.load(ctx, days)
	return err
}

// parseRange reads a lookback range in days from a form or query value.
func parseRange(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("range is required")
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0, fmt.Errorf("range must be a positive number of days, got %q", raw)
	}
	return days, nil
}

// rangeLabel names a lookback range for the selector.
func rangeLabel(days int) string {
	return fmt.Sprintf("Last %d days", days)
}

// rangeOptions lists the supported ranges. A selected range the provider
// rejected is shown first as a disabled placeholder so the selector still
// reflects the state and picking any offered range fires a change.
func rangeOptions(selected int) []RangeOption {
	supported := models.SupportedRanges()
	opts := make([]RangeOption, 0, len(supported)+1)
	if !models.IsSupportedRange(selected) {
		opts = append(opts, RangeOption{
			Days:     selected,
			Label:    rangeLabel(selected) + " (unavailable)",
			Selected: true,
			Disabled: true,
		})
	}
	for _, d := range supported {
		opts = append(opts, RangeOption{Days: d, Label: rangeLabel(d), Selected: d == selected})
	}
	return opts
}

// newViewModel derives display values from a snapshot. Chart data comes
// from the state; options and formatting come from the chart builders.
func newViewModel(st clinicstate.State) ViewModel {
	vm := ViewModel{
		SelectedRange: st.SelectedRange,
		Ranges:        rangeOptions(st.SelectedRange),
		Loaded:        st.Status() == clinicstate.StatusLoaded,
		AverageGMI:    st.AverageGMI,
		Version:       st.Version,
	}
	if st.LoadError != nil {
		vm.Error = st.LoadError.Message
		vm.ErrorKind = st.LoadError.Kind
	}
	if st.Data == nil {
		return vm
	}

	d := *st.Data
	vm.ShowingPatients = d.Patients
	vm.DateRangeText = d.DateRange
	vm.LastUpdated = d.LastUpdated
	vm.AverageGMIText = charts.FormatPercent(st.AverageGMI)

	tir := charts.TimeInRange(d)
	if st.TimeInRangeChartData != nil {
		tir.Data = st.TimeInRangeChartData
	}
	gmi := charts.GMI(d)
	if st.GMIChartData != nil {
		gmi.Data = st.GMIChartData
	}
	vm.TimeInRange = &tir
	vm.GMI = &gmi
	vm.TimeInRangeLegend = barLegend(tir)
	vm.GMILegend = pieLegend(gmi)
	return vm
}

func barLegend(c charts.BarConfig) []LegendItem {
	tips := c.TooltipLabels()
	items := make([]LegendItem, 0, len(c.Data.Datasets))
	for i, ds := range c.Data.Datasets {
		var v float64
		if len(ds.Data) > 0 {
			v = ds.Data[0]
		}
		items = append(items, LegendItem{
			Label:   ds.Label,
			Color:   ds.BackgroundColor,
			Value:   c.Format.Value(v),
			Tooltip: tips[i],
		})
	}
	return items
}

func pieLegend(c charts.PieConfig) []LegendItem {
	if len(c.Data.Datasets) == 0 {
		return nil
	}
	tips := c.TooltipLabels()
	ds := c.Data.Datasets[0]
	items := make([]LegendItem, 0, len(ds.Data))
	for i, v := range ds.Data {
		item := LegendItem{Value: c.Format.Value(v), Tooltip: tips[i]}
		if i < len(c.Data.Labels) {
			item.Label = c.Data.Labels[i]
		}
		if i < len(ds.BackgroundColor) {
			item.Color = ds.BackgroundColor[i]
		}
		items = append(items, item)
	}
	return items
}
