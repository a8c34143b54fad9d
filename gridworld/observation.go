package gridworld

// ObservationSize is the length of the observation vector:
// agent x, y followed by x, y, status for each object.
const ObservationSize = 2 + 3*NumObjects

type Observation [ObservationSize]float32

// ActionMask marks BLOCKED actions: a 1 at index i means action i is
// unavailable (a wall in that direction, nothing to pick up, nothing to
// drop). Callers that sample actions must invert it; Legal does that.
type ActionMask [NumActions]int8

// Info is the auxiliary data returned with every observation
type Info struct {
	ActionMask ActionMask
}

// Blocked reports whether the mask marks a as unavailable
func (m ActionMask) Blocked(a Action) bool {
	return a.Valid() && m[a] != 0
}

// Legal returns the actions the mask does not block, in encoding order
func (m ActionMask) Legal() []Action {
	out := make([]Action, 0, NumActions)
	for i, blocked := range m {
		if blocked == 0 {
			out = append(out, Action(i))
		}
	}
	return out
}

// Status of an object in the observation: -1 when something rests on it,
// +1 when lifted or resting on another object, 0 otherwise.
func (g *Grid) Status(i ObjectIndex) float32 {
	obj := g.Objects[i]
	status := float32(0)
	if obj.Above != NoObject {
		status = -1
	}
	if g.Lifted == i || obj.Below != NoObject {
		status = 1
	}
	return status
}

func (g *Grid) Observation() Observation {
	var obs Observation
	obs[0] = float32(g.Agent.X)
	obs[1] = float32(g.Agent.Y)
	for i, obj := range g.Objects {
		base := 2 + i*3
		obs[base] = float32(obj.Position.X)
		obs[base+1] = float32(obj.Position.Y)
		obs[base+2] = g.Status(ObjectIndex(i))
	}
	return obs
}

func (g *Grid) ActionMask() ActionMask {
	var mask ActionMask
	mask[Up] = boolToInt8(g.Agent.Y == 0)
	mask[Down] = boolToInt8(g.Agent.Y == GridSize-1)
	mask[Left] = boolToInt8(g.Agent.X == 0)
	mask[Right] = boolToInt8(g.Agent.X == GridSize-1)
	mask[PickUp] = boolToInt8(g.TopObject(g.Agent) == NoObject || g.Lifted != NoObject)
	mask[Drop] = boolToInt8(g.Lifted == NoObject)
	return mask
}

func boolToInt8(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
