package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gridroboman/core"
)

func TestStoreSummaries(t *testing.T) {
	t.Parallel()

	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	runID, err := store.NewRun("Gridroboman-LiftRed-v0", `{"episodes":3}`)
	require.NoError(t, err)
	other, err := store.NewRun("Gridroboman-LiftRed-v0", `{}`)
	require.NoError(t, err)
	assert.NotEqual(t, runID, other)

	c := NewStoreAnalyzerConstructor(store, runID)
	q := c.NewAnalyzer("QLearning", 0)
	q.Analyze(episode(0, 0), walk(2, core.Feedback{Reward: 1, Terminated: true}))
	q.Analyze(episode(0, 1), walk(4, core.Feedback{Truncated: true}))
	// the same episode again replaces the earlier row
	q.Analyze(episode(0, 1), walk(6, core.Feedback{Reward: 1, Terminated: true}))

	r := c.NewAnalyzer("Random", 0)
	r.Analyze(episode(0, 0), walk(5, core.Feedback{}))

	require.NoError(t, store.RecordEpisode(other, "Random", 0, 0, walk(1, core.Feedback{})))

	summaries, err := store.Summaries(runID)
	require.NoError(t, err)
	assert.Equal(t, []ExperimentSummary{
		{Experiment: "QLearning", Episodes: 2, Successes: 2, MeanSteps: 4},
		{Experiment: "Random", Episodes: 1, Successes: 0, MeanSteps: 5},
	}, summaries)

	empty, err := store.Summaries("missing")
	require.NoError(t, err)
	assert.Empty(t, empty)
}
