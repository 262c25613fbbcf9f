package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/rich-iannone/great-docs/internal/catalog"
)

const namespace = "great_docs"

// PrometheusRecorder implements Recorder on a dedicated registry.
type PrometheusRecorder struct {
	reg           *prom.Registry
	stageDuration *prom.GaugeVec
	runDuration   prom.Gauge
	discovered    *prom.GaugeVec
	sections      prom.Gauge
	splitClasses  prom.Gauge
	outcomes      *prom.CounterVec
}

// NewPrometheusRecorder registers the run metrics on reg, or on a fresh
// registry when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		stageDuration: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of each stage of the last run",
		}, []string{"stage"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Total duration of the last run",
		}),
		discovered: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "discovered_objects",
			Help:      "Public objects found in the package, by kind",
		}, []string{"kind"}),
		sections: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "planned_sections",
			Help:      "Sections in the generated API reference plan",
		}),
		splitClasses: prom.NewGauge(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "split_classes",
			Help:      "Classes documented with a separate methods section",
		}),
		outcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "run_outcomes_total",
			Help:      "Command outcomes by final status",
		}, []string{"command", "outcome"}),
	}
	reg.MustRegister(pr.stageDuration, pr.runDuration, pr.discovered, pr.sections, pr.splitClasses, pr.outcomes)
	return pr
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.reg }

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	p.stageDuration.WithLabelValues(stage).Add(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Set(d.Seconds())
}

func (p *PrometheusRecorder) SetDiscovered(kind catalog.Kind, n int) {
	p.discovered.WithLabelValues(kind.String()).Set(float64(n))
}

func (p *PrometheusRecorder) SetSections(n int)     { p.sections.Set(float64(n)) }
func (p *PrometheusRecorder) SetSplitClasses(n int) { p.splitClasses.Set(float64(n)) }

func (p *PrometheusRecorder) IncOutcome(command string, outcome Outcome) {
	p.outcomes.WithLabelValues(command, string(outcome)).Inc()
}

// WriteTextfile writes the registry in the text exposition format. The file
// is written to a temporary name and renamed into place.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	if err := prom.WriteToTextfile(path, p.reg); err != nil {
		return fmt.Errorf("write metrics file %s: %w", path, err)
	}
	return nil
}
