package gridroboman

import (
	"fmt"

	"github.com/zeu5/gridroboman/benchmarks/common"
	"github.com/zeu5/gridroboman/gridworld"
	"github.com/zeu5/gridroboman/policies"
)

// GetHierarchy returns the subgoals leading to the task goal, ending with
// the goal itself
func GetHierarchy(task gridworld.Task) []policies.Predicate {
	x, y := task.X, task.Y
	switch task.Kind {
	case gridworld.LiftX:
		return []policies.Predicate{AgentWithin(x, 2), AgentWithin(x, 0), Goal(task)}
	case gridworld.TouchX:
		return []policies.Predicate{AgentWithin(x, 3), Goal(task)}
	case gridworld.MoveXToCenter:
		return []policies.Predicate{Holding(x), CarryingInto(x, "center", gridworld.InCenter), Goal(task)}
	case gridworld.MoveXToCorner:
		return []policies.Predicate{Holding(x), CarryingInto(x, "corner", gridworld.InCorner), Goal(task)}
	case gridworld.TouchXWithY:
		return []policies.Predicate{AgentWithin(y, 0), Holding(y), CarryingNear(y, x, 2), Goal(task)}
	case gridworld.MoveXCloseToY:
		return []policies.Predicate{Holding(x), CarryingNear(x, y, 2), Goal(task)}
	case gridworld.MoveXFarFromY:
		return []policies.Predicate{Holding(x), CarryingAway(x, y, 7), Goal(task)}
	case gridworld.StackXOnY:
		return []policies.Predicate{Holding(x), CarryingNear(x, y, 2), CarryingOnto(x, y), Goal(task)}
	}
	return []policies.Predicate{Goal(task)}
}

// getHierarchySet returns the suffixes of the task hierarchy, shortest
// first. Each suffix is trained and compared as its own experiment.
func getHierarchySet(task gridworld.Task) []common.HierarchySet {
	hierarchy := GetHierarchy(task)
	name := gridworld.ID(task)
	out := make([]common.HierarchySet, 0, len(hierarchy))
	for i := len(hierarchy) - 1; i >= 0; i-- {
		out = append(out, common.HierarchySet{
			Name:       fmt.Sprintf("%s[%d]", name, len(hierarchy)-i),
			Predicates: hierarchy[i:],
		})
	}
	return out
}
