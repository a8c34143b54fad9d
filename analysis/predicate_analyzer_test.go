package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
	"github.com/zeu5/gridroboman/policies"
)

func agentPast(x int) policies.Predicate {
	return policies.Predicate{
		Name: "past",
		Check: func(s core.State) bool {
			return s.(*gridworld.State).Grid.Agent.X >= x
		},
	}
}

func TestPredicateAnalyzer(t *testing.T) {
	t.Parallel()

	a := NewPredicateAnalyzer(nil, agentPast(3))
	a.Analyze(episode(0, 0), walk(2, core.Feedback{}))
	a.Analyze(episode(0, 1), walk(5, core.Feedback{}))

	ds := a.DataSet().(*predicateDataset)
	assert.Equal(t, 1, ds.FirstEpisodeToFinal)
	// the third step of the second episode reaches x=3
	assert.Equal(t, 4, ds.FirstTimeStepToFinal)
	assert.Equal(t, []int{0, 3}, ds.FinalPredicateStates)
	assert.Equal(t, []int{2, 7}, ds.FinalPredicateTimesteps)
	assert.Equal(t, 2, ds.PredicateEpisodes["Init"])
	assert.Equal(t, 1, ds.PredicateEpisodes["past"])
}
