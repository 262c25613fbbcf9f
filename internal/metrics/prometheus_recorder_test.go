package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/rich-iannone/great-docs/internal/catalog"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.SetDiscovered(catalog.KindClass, 2)
	pr.SetDiscovered(catalog.KindFunction, 5)
	pr.SetSections(4)
	pr.SetSplitClasses(1)
	pr.ObserveStageDuration(StageDiscover, 150*time.Millisecond)
	pr.ObserveRunDuration(time.Second)
	pr.IncOutcome("build", OutcomeSuccess)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, lp := range m.GetLabel() {
				key += "/" + lp.GetValue()
			}
			switch {
			case m.GetGauge() != nil:
				values[key] = m.GetGauge().GetValue()
			case m.GetCounter() != nil:
				values[key] = m.GetCounter().GetValue()
			}
		}
	}
	require.InDelta(t, 2, values["great_docs_discovered_objects/class"], 0)
	require.InDelta(t, 5, values["great_docs_discovered_objects/function"], 0)
	require.InDelta(t, 4, values["great_docs_planned_sections"], 0)
	require.InDelta(t, 1, values["great_docs_run_outcomes_total/build/success"], 0)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.SetSections(3)
	path := filepath.Join(t.TempDir(), "run.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "great_docs_planned_sections 3")
}
