package gridworld

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// GridSize is the side length of the square grid
	GridSize = 7
	// MaxTime is the number of steps after which an episode is truncated
	MaxTime = 50
	// NumObjects is the number of colored objects on the grid
	NumObjects = 3
)

// ObjectIndex identifies one of the three objects.
// NoObject is used for absent links and for "nothing lifted".
type ObjectIndex int

const (
	Red ObjectIndex = iota
	Green
	Blue
)

const NoObject ObjectIndex = -1

var objectNames = [NumObjects]string{"red", "green", "blue"}

func (o ObjectIndex) Valid() bool {
	return o >= 0 && int(o) < NumObjects
}

func (o ObjectIndex) String() string {
	if !o.Valid() {
		return "none"
	}
	return objectNames[o]
}

// ParseObject accepts a color name or a numeric index
func ParseObject(s string) (ObjectIndex, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range objectNames {
		if s == name {
			return ObjectIndex(i), nil
		}
	}
	if i, err := strconv.Atoi(s); err == nil && ObjectIndex(i).Valid() {
		return ObjectIndex(i), nil
	}
	return NoObject, fmt.Errorf("%w: unknown object %q", ErrInvalidConfiguration, s)
}

type Cell struct {
	X int
	Y int
}

func (c Cell) InBounds() bool {
	return c.X >= 0 && c.X < GridSize && c.Y >= 0 && c.Y < GridSize
}

// Manhattan returns the L1 distance between two cells
func (c Cell) Manhattan(o Cell) int {
	return abs(c.X-o.X) + abs(c.Y-o.Y)
}

// Within reports whether both per-axis distances are at most d
func (c Cell) Within(o Cell, d int) bool {
	return abs(c.X-o.X) <= d && abs(c.Y-o.Y) <= d
}

// Move returns the cell reached by a movement action, clamped to the grid.
// Non-movement actions return c unchanged.
func (c Cell) Move(a Action) Cell {
	switch a {
	case Up:
		c.Y = max(0, c.Y-1)
	case Down:
		c.Y = min(GridSize-1, c.Y+1)
	case Left:
		c.X = max(0, c.X-1)
	case Right:
		c.X = min(GridSize-1, c.X+1)
	}
	return c
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Object is one colored object. Below and Above are index links into
// the Grid's object array.
type Object struct {
	Position Cell
	Below    ObjectIndex
	Above    ObjectIndex
}

// Grid is the complete world state. It is a plain value: copying it
// yields an independent snapshot.
type Grid struct {
	Agent   Cell
	Objects [NumObjects]Object
	Lifted  ObjectIndex
	Timer   int
}

// EmptyGrid returns a grid with every link cleared and nothing lifted
func EmptyGrid() Grid {
	g := Grid{Lifted: NoObject}
	for i := range g.Objects {
		g.Objects[i] = Object{Below: NoObject, Above: NoObject}
	}
	return g
}

// TopObject returns the object at c that has nothing above it and is not
// lifted, or NoObject.
func (g *Grid) TopObject(c Cell) ObjectIndex {
	for i, obj := range g.Objects {
		if g.Lifted != ObjectIndex(i) && obj.Above == NoObject && obj.Position == c {
			return ObjectIndex(i)
		}
	}
	return NoObject
}

// pickUp lifts the topmost object at the agent's cell, exposing whatever
// it was resting on.
func (g *Grid) pickUp() error {
	if g.Lifted != NoObject {
		return fmt.Errorf("%w: pick up while holding %s", ErrInvariantViolation, g.Lifted)
	}
	top := g.TopObject(g.Agent)
	if top == NoObject {
		return fmt.Errorf("%w: no object to pick up at %s", ErrInvariantViolation, g.Agent)
	}
	if below := g.Objects[top].Below; below != NoObject {
		g.Objects[top].Below = NoObject
		g.Objects[below].Above = NoObject
	}
	g.Lifted = top
	return nil
}

// place drops the lifted object at the agent's cell, stacking it on the
// topmost object already there.
func (g *Grid) place() error {
	if g.Lifted == NoObject {
		return fmt.Errorf("%w: place with nothing lifted", ErrInvariantViolation)
	}
	if top := g.TopObject(g.Agent); top != NoObject {
		g.Objects[top].Above = g.Lifted
		g.Objects[g.Lifted].Below = top
	}
	g.Lifted = NoObject
	return nil
}

// Validate checks the structural invariants of the grid: cells in range,
// symmetric acyclic stack links, stacked objects sharing a cell, a lifted
// object riding with the agent and at most one reachable object per cell.
func (g *Grid) Validate() error {
	if !g.Agent.InBounds() {
		return fmt.Errorf("%w: agent out of bounds at %s", ErrInvariantViolation, g.Agent)
	}
	if g.Lifted != NoObject && !g.Lifted.Valid() {
		return fmt.Errorf("%w: lifted index %d", ErrInvariantViolation, g.Lifted)
	}
	for i, obj := range g.Objects {
		idx := ObjectIndex(i)
		if !obj.Position.InBounds() {
			return fmt.Errorf("%w: %s out of bounds at %s", ErrInvariantViolation, idx, obj.Position)
		}
		for _, link := range []ObjectIndex{obj.Below, obj.Above} {
			if link != NoObject && !link.Valid() {
				return fmt.Errorf("%w: %s links to index %d", ErrInvariantViolation, idx, link)
			}
			if link == idx {
				return fmt.Errorf("%w: %s links to itself", ErrInvariantViolation, idx)
			}
		}
		if obj.Below != NoObject {
			if g.Objects[obj.Below].Above != idx {
				return fmt.Errorf("%w: %s below link not mirrored", ErrInvariantViolation, idx)
			}
			if g.Objects[obj.Below].Position != obj.Position {
				return fmt.Errorf("%w: %s stacked away from %s", ErrInvariantViolation, idx, obj.Below)
			}
		}
		if obj.Above != NoObject && g.Objects[obj.Above].Below != idx {
			return fmt.Errorf("%w: %s above link not mirrored", ErrInvariantViolation, idx)
		}
		depth := 0
		for cur := obj.Below; cur != NoObject; cur = g.Objects[cur].Below {
			if depth++; depth >= NumObjects {
				return fmt.Errorf("%w: stack cycle through %s", ErrInvariantViolation, idx)
			}
		}
	}
	if g.Lifted != NoObject {
		lifted := g.Objects[g.Lifted]
		if lifted.Position != g.Agent {
			return fmt.Errorf("%w: lifted %s at %s, agent at %s", ErrInvariantViolation, g.Lifted, lifted.Position, g.Agent)
		}
		if lifted.Below != NoObject || lifted.Above != NoObject {
			return fmt.Errorf("%w: lifted %s is still stacked", ErrInvariantViolation, g.Lifted)
		}
	}
	tops := make(map[Cell]int)
	for i, obj := range g.Objects {
		if ObjectIndex(i) != g.Lifted && obj.Above == NoObject {
			tops[obj.Position]++
			if tops[obj.Position] > 1 {
				return fmt.Errorf("%w: unstacked objects share %s", ErrInvariantViolation, obj.Position)
			}
		}
	}
	return nil
}

// String draws the grid as text, one row per line. The agent is '*' and
// the topmost object of a cell is its color initial.
func (g Grid) String() string {
	b := new(strings.Builder)
	for y := 0; y < GridSize; y++ {
		for x := 0; x < GridSize; x++ {
			c := Cell{X: x, Y: y}
			symbol := " "
			if g.Agent == c {
				symbol = "*"
			}
			if top := g.TopObject(c); top != NoObject {
				symbol = strings.ToUpper(top.String()[:1])
			}
			b.WriteString("[" + symbol + "]")
		}
		b.WriteString("\n")
	}
	if g.Lifted != NoObject {
		fmt.Fprintf(b, "holding %s\n", g.Lifted)
	}
	return b.String()
}
