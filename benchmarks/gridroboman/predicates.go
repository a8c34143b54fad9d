package gridroboman

import (
	"fmt"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/gridworld"
	"github.com/zeu5/gridroboman/policies"
	"github.com/zeu5/gridroboman/util"
)

func wrapPredicate(f func(*gridworld.Grid) bool) policies.PredicateFunc {
	return func(s core.State) bool {
		gs, ok := s.(*gridworld.State)
		if !ok {
			return false
		}
		return f(&gs.Grid)
	}
}

// Goal holds when the task predicate is satisfied
func Goal(task gridworld.Task) policies.Predicate {
	return policies.Predicate{
		Name:  gridworld.ID(task),
		Check: wrapPredicate(task.Satisfied),
	}
}

func Holding(obj gridworld.ObjectIndex) policies.Predicate {
	return policies.Predicate{
		Name: fmt.Sprintf("Holding(%s)", obj),
		Check: wrapPredicate(func(g *gridworld.Grid) bool {
			return g.Lifted == obj
		}),
	}
}

// AgentWithin holds when nothing is carried and the agent is at most d
// steps from obj
func AgentWithin(obj gridworld.ObjectIndex, d int) policies.Predicate {
	return policies.Predicate{
		Name: fmt.Sprintf("AgentWithin(%s,%d)", obj, d),
		Check: wrapPredicate(func(g *gridworld.Grid) bool {
			return g.Lifted == gridworld.NoObject && g.Agent.Manhattan(g.Objects[obj].Position) <= d
		}),
	}
}

// CarryingInto holds when obj is carried and the agent stands in region
func CarryingInto(obj gridworld.ObjectIndex, name string, region func(gridworld.Cell) bool) policies.Predicate {
	return policies.Predicate{
		Name: fmt.Sprintf("Carrying(%s,%s)", obj, name),
		Check: wrapPredicate(func(g *gridworld.Grid) bool {
			return g.Lifted == obj && region(g.Agent)
		}),
	}
}

// CarryingOnto holds when obj is carried over the cell of target
func CarryingOnto(obj, target gridworld.ObjectIndex) policies.Predicate {
	return policies.Predicate{
		Name: fmt.Sprintf("CarryingOnto(%s,%s)", obj, target),
		Check: wrapPredicate(func(g *gridworld.Grid) bool {
			return g.Lifted == obj && g.TopObject(g.Agent) == target
		}),
	}
}

// CarryingNear holds when obj is carried within d steps of target
func CarryingNear(obj, target gridworld.ObjectIndex, d int) policies.Predicate {
	return policies.Predicate{
		Name: fmt.Sprintf("CarryingNear(%s,%s,%d)", obj, target, d),
		Check: wrapPredicate(func(g *gridworld.Grid) bool {
			return g.Lifted == obj && g.Agent.Manhattan(g.Objects[target].Position) <= d
		}),
	}
}

// CarryingAway holds when obj is carried at least d steps from target
func CarryingAway(obj, target gridworld.ObjectIndex, d int) policies.Predicate {
	return policies.Predicate{
		Name: fmt.Sprintf("CarryingAway(%s,%s,%d)", obj, target, d),
		Check: wrapPredicate(func(g *gridworld.Grid) bool {
			return g.Lifted == obj && g.Agent.Manhattan(g.Objects[target].Position) >= d
		}),
	}
}

// ObjectLayout paints a state by its objects alone, ignoring where the
// agent stands unless it carries something
func ObjectLayout() core.Painter {
	return func(s core.State) string {
		gs, ok := s.(*gridworld.State)
		if !ok {
			return s.Hash()
		}
		obs := gs.Observation
		layout := obs[2:]
		return util.JsonHash(layout)
	}
}
