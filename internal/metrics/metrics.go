// Package metrics exports executor and capture activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"image"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/fxgraph/internal/executor"
	"github.com/specialistvlad/fxgraph/internal/graph"
	"github.com/specialistvlad/fxgraph/internal/node"
)

const namespace = "fxgraph"

// Metrics implements executor.Observer and capture.Sink. Every instance
// owns its registry so tests and multiple engines do not collide.
type Metrics struct {
	registry *prometheus.Registry

	passes        *prometheus.CounterVec
	passDuration  *prometheus.HistogramVec
	nodeRuns      *prometheus.CounterVec
	state         prometheus.Gauge
	framesWritten prometheus.Counter
}

var _ executor.Observer = (*Metrics)(nil)

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		passes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "passes_total",
			Help:      "Execution passes by kind and result.",
		}, []string{"kind", "result"}),
		passDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "pass_duration_seconds",
			Help:      "Wall time of execution passes.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
		nodeRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "node_executions_total",
			Help:      "Node executions by node type and result.",
		}, []string{"node_type", "result"}),
		state: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "executor",
			Name:      "state",
			Help:      "Current executor state (0 idle, 1 ordering, 2 cycle detected, 3 executing).",
		}),
		framesWritten: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "capture",
			Name:      "frames_total",
			Help:      "Frames delivered by capture runs.",
		}),
	}
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) StateChanged(s executor.State) {
	m.state.Set(float64(s))
}

func (m *Metrics) NodeExecuted(n node.Node, _ time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "fallback"
	}
	m.nodeRuns.WithLabelValues(n.TypeName(), result).Inc()
}

func (m *Metrics) PassFinished(kind executor.PassKind, _ int, elapsed time.Duration, err error) {
	result := "ok"
	switch {
	case errors.Is(err, graph.ErrCycle):
		result = "cycle"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = "cancelled"
	case err != nil:
		result = "error"
	}
	m.passes.WithLabelValues(string(kind), result).Inc()
	m.passDuration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

// WriteFrame counts a captured frame. It lets Metrics sit in a capture's
// sink list.
func (m *Metrics) WriteFrame(context.Context, int, *image.RGBA) error {
	m.framesWritten.Inc()
	return nil
}
