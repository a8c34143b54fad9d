package gridworld

import "strconv"

// Action is one of the seven discrete actions
type Action int

const (
	NoOp Action = iota
	Up
	Down
	Left
	Right
	PickUp
	Drop
)

const NumActions = 7

var actionNames = [NumActions]string{"noop", "up", "down", "left", "right", "pickup", "drop"}

func (a Action) Valid() bool {
	return a >= 0 && a < NumActions
}

func (a Action) String() string {
	if !a.Valid() {
		return "action(" + strconv.Itoa(int(a)) + ")"
	}
	return actionNames[a]
}

// Hash makes Action usable as a core.Action
func (a Action) Hash() string {
	return a.String()
}

// Actions lists every action in encoding order
func Actions() []Action {
	out := make([]Action, NumActions)
	for i := range out {
		out[i] = Action(i)
	}
	return out
}
