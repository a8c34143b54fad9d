package analysis

import (
	"context"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
)

func gridState(agent gridworld.Cell) *gridworld.State {
	g := gridworld.EmptyGrid()
	g.Agent = agent
	g.Objects[gridworld.Red].Position = gridworld.Cell{X: 6, Y: 6}
	g.Objects[gridworld.Green].Position = gridworld.Cell{X: 6, Y: 5}
	g.Objects[gridworld.Blue].Position = gridworld.Cell{X: 6, Y: 4}
	return &gridworld.State{Observation: g.Observation(), Mask: g.ActionMask(), Grid: g}
}

// walk builds a trace moving right from (0,0) for n steps, the last
// step ending with feedback
func walk(n int, last core.Feedback) *core.Trace {
	trace := core.NewTrace()
	for i := 0; i < n; i++ {
		fb := core.Feedback{}
		if i == n-1 {
			fb = last
		}
		trace.AddStep(&core.Step{
			State:     gridState(gridworld.Cell{X: i, Y: 0}),
			Action:    gridworld.Right,
			NextState: gridState(gridworld.Cell{X: i + 1, Y: 0}),
			Feedback:  fb,
		})
	}
	return trace
}

func episode(run, n int) *core.EpisodeContext {
	eCtx := core.NewEpisodeContext(context.Background())
	eCtx.Run = run
	eCtx.Episode = n
	return eCtx
}
