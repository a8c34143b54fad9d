package analysis

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gridroboman/core"
)

func TestOutcome(t *testing.T) {
	t.Parallel()

	assert.Equal(t, OutcomeSuccess, Outcome(walk(2, core.Feedback{Terminated: true})))
	assert.Equal(t, OutcomeTruncated, Outcome(walk(2, core.Feedback{Truncated: true})))
	assert.Equal(t, OutcomeHorizon, Outcome(walk(2, core.Feedback{})))
	assert.Equal(t, OutcomeHorizon, Outcome(core.NewTrace()))

	failed := walk(1, core.Feedback{})
	failed.SetError(errors.New("boom"))
	assert.Equal(t, OutcomeError, Outcome(failed))
}

func TestMetricsAnalyzer(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	a := NewMetricsAnalyzerConstructor(metrics).NewAnalyzer("QLearning", 0)
	a.Analyze(episode(0, 0), walk(3, core.Feedback{Terminated: true}))
	a.Analyze(episode(0, 1), walk(7, core.Feedback{Terminated: true}))
	a.Analyze(episode(0, 2), walk(50, core.Feedback{Truncated: true}))

	families, err := reg.Gather()
	require.NoError(t, err)

	episodes := make(map[string]float64)
	var steps float64
	var observed uint64
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case "gridroboman_episodes_total":
				for _, l := range m.GetLabel() {
					if l.GetName() == "outcome" {
						episodes[l.GetValue()] = m.GetCounter().GetValue()
					}
				}
			case "gridroboman_steps_total":
				steps = m.GetCounter().GetValue()
			case "gridroboman_episode_length_steps":
				observed = m.GetHistogram().GetSampleCount()
			}
		}
	}
	assert.Equal(t, map[string]float64{OutcomeSuccess: 2, OutcomeTruncated: 1}, episodes)
	assert.Equal(t, 60.0, steps)
	assert.Equal(t, uint64(3), observed)
}
