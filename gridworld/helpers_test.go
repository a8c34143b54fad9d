package gridworld

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func layout(agent, red, green, blue Cell) Grid {
	g := EmptyGrid()
	g.Agent = agent
	g.Objects[Red].Position = red
	g.Objects[Green].Position = green
	g.Objects[Blue].Position = blue
	return g
}

func newEnvAt(t *testing.T, task Task, g Grid) *Env {
	t.Helper()
	env, err := New(task)
	require.NoError(t, err)
	require.NoError(t, env.SetGrid(g))
	return env
}

func step(t *testing.T, env *Env, actions ...Action) StepResult {
	t.Helper()
	var res StepResult
	for _, a := range actions {
		var err error
		res, err = env.Step(a)
		require.NoError(t, err)
	}
	return res
}
