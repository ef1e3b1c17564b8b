package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// metricValue sums the counter or gauge samples of the named family.
func metricValue(t *testing.T, reg *prom.Registry, name string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	var total float64
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += sampleValue(m)
		}
	}
	return total
}

func sampleValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return 0
	}
}

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_pages", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_pages", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.IncPagesRendered(3)
	pr.IncPagesSkipped(1)
	pr.SetBrokenLinks(2)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, mfs)

	assert.InDelta(t, 3, metricValue(t, reg, "simpledocs_pages_rendered_total"), 0.0001)
	assert.InDelta(t, 1, metricValue(t, reg, "simpledocs_pages_skipped_total"), 0.0001)
	assert.InDelta(t, 2, metricValue(t, reg, "simpledocs_broken_links"), 0.0001)
	assert.InDelta(t, 1, metricValue(t, reg, "simpledocs_stage_results_total"), 0.0001)
	assert.InDelta(t, 1, metricValue(t, reg, "simpledocs_build_outcomes_total"), 0.0001)
}

func TestPrometheusRecorder_IgnoresNonPositivePageCounts(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncPagesRendered(0)
	pr.IncPagesSkipped(-1)

	assert.Zero(t, metricValue(t, pr.Registry(), "simpledocs_pages_rendered_total"))
	assert.Zero(t, metricValue(t, pr.Registry(), "simpledocs_pages_skipped_total"))
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("load_toc", time.Second)
		pr.IncBuildOutcome(BuildOutcomeFailed)
		pr.SetBrokenLinks(1)
	})
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(BuildOutcomeWarning)
	pr.IncPagesRendered(5)

	path := filepath.Join(t.TempDir(), "nested", "simpledocs.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `simpledocs_build_outcomes_total{outcome="warning"} 1`)
	assert.Contains(t, text, "simpledocs_pages_rendered_total 5")
}
