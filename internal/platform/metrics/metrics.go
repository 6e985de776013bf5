// internal/platform/metrics/metrics.go
package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"opensight/internal/core/ports"
)

// Namespace prefixes every metric name.
const Namespace = "opensight"

// Recorder turns run events into Prometheus metrics. It owns a private
// registry so that nothing leaks into the global default one.
type Recorder struct {
	registry *prometheus.Registry

	moduleRuns     *prometheus.CounterVec
	moduleDuration *prometheus.HistogramVec
	collectedKeys  prometheus.Gauge
	runDuration    prometheus.Gauge

	mu   sync.Mutex
	runs int
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		moduleRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "module_runs_total",
				Help:      "Modules requested in a run, by outcome status.",
			},
			[]string{"module", "status"},
		),
		moduleDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "module_duration_seconds",
				Help:      "Wall time of each executed module.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"module"},
		),
		collectedKeys: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "report_collected_keys",
			Help:      "Keys present in the collected section of the last report.",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
	}
}

// Notify implements ports.Observer.
func (r *Recorder) Notify(_ context.Context, event ports.Event) error {
	if event.Type == ports.EventTypeRunFinished {
		r.mu.Lock()
		r.runs++
		r.mu.Unlock()

		r.runDuration.Set(event.Duration.Seconds())
		if event.Report != nil {
			r.collectedKeys.Set(float64(len(event.Report.Collected)))
		}
		return nil
	}

	status, terminal := event.Type.Status()
	if !terminal {
		return nil
	}

	r.moduleRuns.WithLabelValues(event.Module, string(status)).Inc()
	if event.Type == ports.EventTypeModuleSucceeded || event.Type == ports.EventTypeModuleFailed {
		r.moduleDuration.WithLabelValues(event.Module).Observe(event.Duration.Seconds())
	}
	return nil
}

// Runs returns how many finished runs were observed.
func (r *Recorder) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
