// Package metrics exports run, step, tool and model counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"crew-agent/internal/application/port/output"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultNamespace = "crew_agent"

var _ output.MetricsPort = (*Collector)(nil)

type Collector struct {
	registry *prometheus.Registry

	runsTotal    *prometheus.CounterVec
	runDuration  *prometheus.HistogramVec
	stepsTotal   *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	toolDuration *prometheus.HistogramVec
	modelCalls   *prometheus.CounterVec
	modelLatency prometheus.Histogram
}

// NewCollector registers every series on a private registry so that several
// collectors can coexist in one process.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = defaultNamespace
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of agent runs",
			},
			[]string{"mode", "status"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Agent run duration in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"mode"},
		),
		stepsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "crew_steps_total",
				Help:      "Total number of executed plan steps",
			},
			[]string{"status"},
		),
		toolCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool invocations",
			},
			[]string{"tool", "status"},
		),
		toolDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Tool invocation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		modelCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_calls_total",
				Help:      "Total number of language model completions",
			},
			[]string{"status"},
		),
		modelLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "model_call_duration_seconds",
				Help:      "Language model completion latency in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
		),
	}
}

func (c *Collector) RunFinished(mode, status string, d time.Duration) {
	c.runsTotal.WithLabelValues(mode, status).Inc()
	c.runDuration.WithLabelValues(mode).Observe(d.Seconds())
}

func (c *Collector) StepFinished(status string) {
	c.stepsTotal.WithLabelValues(status).Inc()
}

func (c *Collector) ToolCalled(tool, status string, d time.Duration) {
	c.toolCalls.WithLabelValues(tool, status).Inc()
	c.toolDuration.WithLabelValues(tool).Observe(d.Seconds())
}

func (c *Collector) ModelCalled(status string, d time.Duration) {
	c.modelCalls.WithLabelValues(status).Inc()
	c.modelLatency.Observe(d.Seconds())
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop discards every observation.
type Nop struct{}

var _ output.MetricsPort = Nop{}

func (Nop) RunFinished(string, string, time.Duration) {}
func (Nop) StepFinished(string)                       {}
func (Nop) ToolCalled(string, string, time.Duration)  {}
func (Nop) ModelCalled(string, time.Duration)         {}
