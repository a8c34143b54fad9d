package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gridroboman/core"
)

func TestSuccessAnalyzer(t *testing.T) {
	t.Parallel()

	a := NewSuccessAnalyzer()
	a.Analyze(episode(0, 0), walk(4, core.Feedback{Truncated: true}))
	a.Analyze(episode(0, 1), walk(2, core.Feedback{Reward: 1, Terminated: true}))
	a.Analyze(episode(0, 2), walk(6, core.Feedback{Reward: 1, Terminated: true}))

	ds, ok := a.DataSet().(*successDataset)
	require.True(t, ok)
	assert.Equal(t, []int{4, 6, 12}, ds.Timesteps)
	assert.Equal(t, []int{0, 1, 2}, ds.Successes)
	assert.Equal(t, 1, ds.FirstSuccessEpisode)
	assert.InDelta(t, 2.0/3.0, ds.SuccessRate, 1e-9)
	assert.InDelta(t, 4.0, ds.MeanLength, 1e-9)
	assert.InDelta(t, 2.0, ds.StdLength, 1e-9)

	a.Reset()
	ds = a.DataSet().(*successDataset)
	assert.Empty(t, ds.Lengths)
	assert.Equal(t, -1, ds.FirstSuccessEpisode)
}

func TestSuccessAnalyzerSingleEpisodeEncodes(t *testing.T) {
	t.Parallel()

	a := NewSuccessAnalyzer()
	a.Analyze(episode(0, 0), walk(3, core.Feedback{Reward: 1, Terminated: true}))

	ds := a.DataSet().(*successDataset)
	assert.InDelta(t, 3.0, ds.MeanLength, 1e-9)
	assert.Equal(t, 0.0, ds.StdLength)
	_, err := json.Marshal(ds)
	assert.NoError(t, err)
}

func TestSuccessComparatorWritesPerRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	a := NewSuccessAnalyzer()
	a.Analyze(episode(0, 0), walk(3, core.Feedback{Reward: 1, Terminated: true}))

	NewSuccessComparatorConstructor(dir).NewComparator(2).Compare(
		[]string{"QLearning", "Broken"},
		[]core.DataSet{a.DataSet(), nil},
	)

	raw, err := os.ReadFile(filepath.Join(dir, "2", "success_analyzer.json"))
	require.NoError(t, err)
	out := make(map[string]struct {
		Successes   []int
		SuccessRate float64
	})
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Contains(t, out, "QLearning")
	assert.NotContains(t, out, "Broken")
	assert.Equal(t, []int{1}, out["QLearning"].Successes)
	assert.Equal(t, 1.0, out["QLearning"].SuccessRate)
}

func TestCoverageAnalyzer(t *testing.T) {
	t.Parallel()

	a := NewCoverageAnalyzer(nil)
	a.Analyze(episode(0, 0), walk(3, core.Feedback{}))
	a.Analyze(episode(0, 1), walk(5, core.Feedback{}))
	ds := a.DataSet().(*coverageDataset)
	assert.Equal(t, []int{3, 8}, ds.Timesteps)
	assert.Equal(t, []int{4, 6}, ds.UniqueStates)

	row := func(s core.State) string { return "row" }
	painted := NewCoverageAnalyzer(row)
	painted.Analyze(episode(0, 0), walk(5, core.Feedback{}))
	assert.Equal(t, []int{1}, painted.DataSet().(*coverageDataset).UniqueStates)
}
