package gridroboman

import (
	"github.com/zeu5/gridroboman/analysis"
	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
)

func gridOf(s core.State) (*gridworld.Grid, bool) {
	gs, ok := s.(*gridworld.State)
	if !ok {
		return nil, false
	}
	return &gs.Grid, true
}

// CarryInvariant: after every step a lifted object sits on the agent's cell
var CarryInvariant = analysis.InvariantSpec{
	Name: "carry",
	Violated: func(trace *core.Trace) bool {
		for i := 0; i < trace.Len(); i++ {
			g, ok := gridOf(trace.Step(i).NextState)
			if ok && g.Lifted != gridworld.NoObject && g.Objects[g.Lifted].Position != g.Agent {
				return true
			}
		}
		return false
	},
}

// StackInvariant: stack links stay symmetric, acyclic and co-located
var StackInvariant = analysis.InvariantSpec{
	Name: "stack",
	Violated: func(trace *core.Trace) bool {
		for i := 0; i < trace.Len(); i++ {
			g, ok := gridOf(trace.Step(i).NextState)
			if ok && g.Validate() != nil {
				return true
			}
		}
		return false
	},
}

// ResetInvariant: the episode starts with agent and objects on distinct cells
var ResetInvariant = analysis.InvariantSpec{
	Name: "reset",
	Violated: func(trace *core.Trace) bool {
		if trace.Len() == 0 {
			return false
		}
		g, ok := gridOf(trace.Step(0).State)
		if !ok {
			return false
		}
		seen := map[gridworld.Cell]bool{g.Agent: true}
		for _, obj := range g.Objects {
			if seen[obj.Position] {
				return true
			}
			seen[obj.Position] = true
		}
		return g.Lifted != gridworld.NoObject || g.Timer != 0
	},
}

// MaskInvariant: every action a policy took was allowed by the mask of
// the state it was taken in
var MaskInvariant = analysis.InvariantSpec{
	Name: "mask",
	Violated: func(trace *core.Trace) bool {
		for i := 0; i < trace.Len(); i++ {
			step := trace.Step(i)
			gs, ok := step.State.(*gridworld.State)
			a, isAction := step.Action.(gridworld.Action)
			if ok && isAction && gs.Mask.Blocked(a) {
				return true
			}
		}
		return false
	},
}

func Invariants() []analysis.InvariantSpec {
	return []analysis.InvariantSpec{CarryInvariant, StackInvariant, ResetInvariant, MaskInvariant}
}
