package gridroboman

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/gridroboman/benchmarks/common"
	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
)

func state(g gridworld.Grid) *gridworld.State {
	return &gridworld.State{Observation: g.Observation(), Mask: g.ActionMask(), Grid: g}
}

func layout(agent, red, green, blue gridworld.Cell) gridworld.Grid {
	g := gridworld.EmptyGrid()
	g.Agent = agent
	g.Objects[gridworld.Red].Position = red
	g.Objects[gridworld.Green].Position = green
	g.Objects[gridworld.Blue].Position = blue
	return g
}

func TestHierarchiesEndWithGoal(t *testing.T) {
	t.Parallel()

	for _, id := range gridworld.Tasks() {
		task, err := gridworld.Lookup(id)
		require.NoError(t, err)
		h := GetHierarchy(task)
		require.NotEmpty(t, h, id)
		assert.Equal(t, id, h[len(h)-1].Name)

		sets := getHierarchySet(task)
		require.Len(t, sets, len(h))
		assert.Len(t, sets[0].Predicates, 1)
		assert.Len(t, sets[len(sets)-1].Predicates, len(h))
	}
}

func TestStackHierarchyOrder(t *testing.T) {
	t.Parallel()

	task := gridworld.Task{Kind: gridworld.StackXOnY, X: gridworld.Red, Y: gridworld.Green}
	h := GetHierarchy(task)

	carrying := layout(gridworld.Cell{X: 0, Y: 0}, gridworld.Cell{X: 0, Y: 0}, gridworld.Cell{X: 4, Y: 4}, gridworld.Cell{X: 6, Y: 6})
	carrying.Lifted = gridworld.Red
	over := carrying
	over.Agent = gridworld.Cell{X: 4, Y: 4}
	over.Objects[gridworld.Red].Position = over.Agent

	checks := func(g gridworld.Grid) []bool {
		out := make([]bool, len(h))
		for i, p := range h {
			out[i] = p.Check(state(g))
		}
		return out
	}
	assert.Equal(t, []bool{true, false, false, false}, checks(carrying))
	assert.Equal(t, []bool{true, true, true, false}, checks(over))
}

func TestObjectLayoutIgnoresAgent(t *testing.T) {
	t.Parallel()

	paint := ObjectLayout()
	a := layout(gridworld.Cell{X: 0, Y: 0}, gridworld.Cell{X: 1, Y: 1}, gridworld.Cell{X: 2, Y: 2}, gridworld.Cell{X: 3, Y: 3})
	b := a
	b.Agent = gridworld.Cell{X: 5, Y: 5}
	c := a
	c.Objects[gridworld.Red].Position = gridworld.Cell{X: 6, Y: 6}

	assert.Equal(t, paint(state(a)), paint(state(b)))
	assert.NotEqual(t, paint(state(a)), paint(state(c)))
}

func TestInvariantsHoldOnRandomRollouts(t *testing.T) {
	t.Parallel()

	env, err := gridworld.NewEnvironment(gridworld.Task{Kind: gridworld.StackXOnY, X: gridworld.Blue, Y: gridworld.Red}, 3)
	require.NoError(t, err)
	for episode := 0; episode < 30; episode++ {
		trace := core.NewTrace()
		s, err := env.Reset(nil)
		require.NoError(t, err)
		for i := 0; i < gridworld.MaxTime; i++ {
			legal := s.Actions()
			a := legal[(episode+i)%len(legal)]
			next, fb, err := env.Step(a, nil)
			require.NoError(t, err)
			trace.AddStep(&core.Step{State: s, Action: a, NextState: next, Feedback: fb})
			s = next
			if fb.Done() {
				break
			}
		}
		for _, inv := range Invariants() {
			assert.Falsef(t, inv.Violated(trace), "%s violated in episode %d", inv.Name, episode)
		}
	}
}

func TestInvariantsCatchViolations(t *testing.T) {
	t.Parallel()

	overlapping := layout(gridworld.Cell{X: 1, Y: 1}, gridworld.Cell{X: 1, Y: 1}, gridworld.Cell{X: 2, Y: 2}, gridworld.Cell{X: 3, Y: 3})
	detached := overlapping
	detached.Lifted = gridworld.Green
	blocked := layout(gridworld.Cell{X: 0, Y: 0}, gridworld.Cell{X: 1, Y: 1}, gridworld.Cell{X: 2, Y: 2}, gridworld.Cell{X: 3, Y: 3})

	trace := func(from, to gridworld.Grid, a gridworld.Action) *core.Trace {
		tr := core.NewTrace()
		tr.AddStep(&core.Step{State: state(from), Action: a, NextState: state(to)})
		return tr
	}

	assert.True(t, ResetInvariant.Violated(trace(overlapping, overlapping, gridworld.NoOp)))
	assert.True(t, CarryInvariant.Violated(trace(blocked, detached, gridworld.NoOp)))
	assert.True(t, StackInvariant.Violated(trace(blocked, detached, gridworld.NoOp)))
	assert.True(t, MaskInvariant.Violated(trace(blocked, blocked, gridworld.Up)))
	assert.False(t, MaskInvariant.Violated(trace(blocked, blocked, gridworld.Down)))
}

func TestPrepareComparison(t *testing.T) {
	t.Parallel()

	flags := common.DefaultFlags()
	flags.SavePath = t.TempDir()
	task := gridworld.Task{Kind: gridworld.TouchX, X: gridworld.Green, Y: gridworld.NoObject}

	cmp, err := PrepareComparison(flags, task, Sinks{})
	require.NoError(t, err)
	names := make([]string, 0)
	for _, e := range cmp.Experiments {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Random", "QLearning", "BonusMax", "NegRLVisits", "UCBZero"}, names)
	assert.Contains(t, cmp.Analyzers, "Success")
	assert.NotContains(t, cmp.Analyzers, "Metrics")

	hcmp, err := PrepareHierarchyComparison(flags, task, Sinks{})
	require.NoError(t, err)
	assert.Len(t, hcmp.Experiments, len(GetHierarchy(task))+1)

	_, err = PrepareComparison(flags, gridworld.Task{Kind: gridworld.StackXOnY, X: gridworld.Red, Y: gridworld.Red}, Sinks{})
	assert.ErrorIs(t, err, gridworld.ErrInvalidConfiguration)
}
