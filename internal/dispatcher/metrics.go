package dispatcher

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects dispatch statistics on a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	commands     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	panics       prometheus.Counter
	stackDepth   prometheus.Gauge
	historyDepth *prometheus.GaugeVec
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		commands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rpncalc_commands_total",
			Help: "Lines processed, by resolved kind and outcome.",
		}, []string{"kind", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpncalc_dispatch_duration_seconds",
			Help:    "Time spent processing one line.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"kind"}),
		panics: factory.NewCounter(prometheus.CounterOpts{
			Name: "rpncalc_dispatch_panics_total",
			Help: "Actions that panicked during execution.",
		}),
		stackDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rpncalc_stack_depth",
			Help: "Number of values on the stack.",
		}),
		historyDepth: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rpncalc_history_depth",
			Help: "Number of snapshots in each history.",
		}, []string{"direction"}),
	}
}

// RecordDispatch records one processed line and the resulting depths.
func (m *Metrics) RecordDispatch(result Result, duration time.Duration, stack, undo, redo int) {
	kind := result.Action.Kind.String()
	m.commands.WithLabelValues(kind, result.Status.String()).Inc()
	m.duration.WithLabelValues(kind).Observe(duration.Seconds())
	m.stackDepth.Set(float64(stack))
	m.historyDepth.WithLabelValues("undo").Set(float64(undo))
	m.historyDepth.WithLabelValues("redo").Set(float64(redo))
}

// RecordPanic records a recovered panic.
func (m *Metrics) RecordPanic() {
	m.panics.Inc()
}

// WriteToTextfile writes the current metrics in the text exposition
// format, for pickup by a node exporter textfile collector.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
