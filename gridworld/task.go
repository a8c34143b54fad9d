package gridworld

import "fmt"

// TaskKind selects the goal predicate of an environment
type TaskKind int

const (
	LiftX TaskKind = iota
	TouchX
	MoveXToCenter
	MoveXToCorner
	TouchXWithY
	MoveXCloseToY
	MoveXFarFromY
	StackXOnY
)

var taskKindNames = []string{
	"LiftX",
	"TouchX",
	"MoveXToCenter",
	"MoveXToCorner",
	"TouchXWithY",
	"MoveXCloseToY",
	"MoveXFarFromY",
	"StackXOnY",
}

// TaskKinds lists every task kind in declaration order
func TaskKinds() []TaskKind {
	out := make([]TaskKind, len(taskKindNames))
	for i := range out {
		out[i] = TaskKind(i)
	}
	return out
}

func (k TaskKind) Valid() bool {
	return k >= 0 && int(k) < len(taskKindNames)
}

func (k TaskKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("TaskKind(%d)", int(k))
	}
	return taskKindNames[k]
}

// NeedsY reports whether the predicate relates X to a second object
func (k TaskKind) NeedsY() bool {
	switch k {
	case TouchXWithY, MoveXCloseToY, MoveXFarFromY, StackXOnY:
		return true
	}
	return false
}

// Task is the construction-time parameterization of an environment.
// Y is NoObject for tasks that only involve X. The zero ObjectIndex is
// Red, so a literal must set Y explicitly; NewTask does that.
type Task struct {
	Kind TaskKind
	X    ObjectIndex
	Y    ObjectIndex
}

// NewTask builds a task over x alone
func NewTask(kind TaskKind, x ObjectIndex) Task {
	return Task{Kind: kind, X: x, Y: NoObject}
}

func (t Task) Validate() error {
	if !t.Kind.Valid() {
		return fmt.Errorf("%w: unknown task kind %d", ErrInvalidConfiguration, int(t.Kind))
	}
	if !t.X.Valid() {
		return fmt.Errorf("%w: x object %d not in [0, %d)", ErrInvalidConfiguration, int(t.X), NumObjects)
	}
	if t.Y == NoObject {
		if t.Kind.NeedsY() {
			return fmt.Errorf("%w: %s requires a y object", ErrInvalidConfiguration, t.Kind)
		}
		return nil
	}
	if !t.Y.Valid() {
		return fmt.Errorf("%w: y object %d not in [0, %d)", ErrInvalidConfiguration, int(t.Y), NumObjects)
	}
	if t.X == t.Y {
		return fmt.Errorf("%w: x and y objects must differ, both %s", ErrInvalidConfiguration, t.X)
	}
	return nil
}

func (t Task) String() string {
	if t.Y == NoObject {
		return fmt.Sprintf("%s[x=%s]", t.Kind, t.X)
	}
	return fmt.Sprintf("%s[x=%s,y=%s]", t.Kind, t.X, t.Y)
}

// Satisfied evaluates the goal predicate over g. The task is assumed to
// have been validated.
func (t Task) Satisfied(g *Grid) bool {
	x := g.Objects[t.X]
	switch t.Kind {
	case LiftX:
		return g.Lifted == t.X
	case TouchX:
		return g.Lifted == NoObject && g.Agent.Manhattan(x.Position) == 1
	case MoveXToCenter:
		return g.Lifted == NoObject && InCenter(x.Position)
	case MoveXToCorner:
		return g.Lifted == NoObject && InCorner(x.Position)
	case TouchXWithY:
		return g.Lifted == t.Y && g.Agent.Manhattan(x.Position) == 1
	case MoveXCloseToY:
		return g.Lifted == NoObject && x.Position.Within(g.Objects[t.Y].Position, 1)
	case MoveXFarFromY:
		return g.Lifted == NoObject && x.Position.Manhattan(g.Objects[t.Y].Position) > 9
	case StackXOnY:
		return x.Below == t.Y
	}
	return false
}

// InCenter reports whether c lies in the central 3x3 block
func InCenter(c Cell) bool {
	return c.X >= 2 && c.X <= 4 && c.Y >= 2 && c.Y <= 4
}

// InCorner reports whether c lies in one of the four 2x2 corner blocks
func InCorner(c Cell) bool {
	edge := func(v int) bool { return v <= 1 || v >= GridSize-2 }
	return edge(c.X) && edge(c.Y)
}
