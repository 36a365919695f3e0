// Package metrics exposes Prometheus counters for dashboard loads and state
// transitions.
//
// Each Recorder owns its registry so tests and multiple app instances do not
// collide on the default global registry. A nil *Recorder is valid and
// records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/clinicoutcomes/internal/domain/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "clinicoutcomes"

// otherRange is the range_days label for every unsupported range.
const otherRange = "other"

// Recorder holds the collectors for this process.
type Recorder struct {
	registry *prometheus.Registry

	actions      *prometheus.CounterVec
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	selected     prometheus.Gauge
}

// New creates a Recorder with its own registry. Go runtime and process
// collectors are registered alongside the app collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()

	r := &Recorder{
		registry: reg,
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_actions_total",
			Help:      "State actions applied to the clinic outcomes store, by action type.",
		}, []string{"action"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Dashboard data loads, by range and result.",
		}, []string{"range_days", "result"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching outcome data from the provider.",
			Buckets:   prometheus.DefBuckets,
		}),
		selected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "selected_range_days",
			Help:      "Currently selected lookback range in days, 0 when it is not a supported range.",
		}),
	}

	reg.MustRegister(
		r.actions,
		r.loads,
		r.loadDuration,
		r.selected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ActionApplied counts one applied state action.
func (r *Recorder) ActionApplied(action string) {
	if r == nil {
		return
	}
	r.actions.WithLabelValues(action).Inc()
}

// RangeSelected records the currently selected range.
func (r *Recorder) RangeSelected(days int) {
	if r == nil {
		return
	}
	if !models.IsSupportedRange(days) {
		days = 0
	}
	r.selected.Set(float64(days))
}

// LoadFinished records a provider fetch. result is "ok" or an error kind.
func (r *Recorder) LoadFinished(days int, result string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.loads.WithLabelValues(rangeLabel(days), result).Inc()
	r.loadDuration.Observe(elapsed.Seconds())
}

// rangeLabel keeps range_days to the supported ranges plus otherRange.
func rangeLabel(days int) string {
	if !models.IsSupportedRange(days) {
		return otherRange
	}
	return strconv.Itoa(days)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
