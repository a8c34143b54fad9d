package gridworld

import (
	"fmt"
	"math/rand"
	"time"
)

// StepResult is everything a single transition reports back
type StepResult struct {
	Observation Observation
	Reward      float64
	Terminated  bool
	Truncated   bool
	Info        Info
}

// Env is one gridroboman environment instance. It owns its grid and its
// random source; instances share nothing and need no locking, but a
// single instance must not be stepped from two goroutines at once.
type Env struct {
	task Task
	grid Grid
	rand *rand.Rand
}

// New validates the task and returns an environment in an unreset state
func New(task Task) (*Env, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return &Env{
		task: task,
		grid: EmptyGrid(),
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

func (e *Env) Task() Task {
	return e.task
}

// Seed reseeds the instance random source without touching the grid
func (e *Env) Seed(seed int64) {
	e.rand = rand.New(rand.NewSource(seed))
}

// Reset places the agent and then the three objects on distinct random
// cells. A non-nil seed reseeds the random source first; a nil seed
// continues the current stream.
func (e *Env) Reset(seed *int64) (Observation, Info) {
	if seed != nil {
		e.Seed(*seed)
	}
	g := EmptyGrid()
	g.Agent = e.randomCell()
	used := map[Cell]bool{g.Agent: true}
	for i := range g.Objects {
		pos := e.randomCell()
		for used[pos] {
			pos = e.randomCell()
		}
		used[pos] = true
		g.Objects[i].Position = pos
	}
	e.grid = g
	return e.grid.Observation(), Info{ActionMask: e.grid.ActionMask()}
}

func (e *Env) randomCell() Cell {
	x := e.rand.Intn(GridSize)
	y := e.rand.Intn(GridSize)
	return Cell{X: x, Y: y}
}

// Step applies one action. Moving into a wall, picking up with nothing
// reachable and dropping with nothing held are no-ops; only an action
// index outside the encoding is an error.
func (e *Env) Step(a Action) (StepResult, error) {
	if !a.Valid() {
		return StepResult{}, fmt.Errorf("%w: %d", ErrInvalidAction, int(a))
	}
	g := &e.grid

	switch a {
	case Up, Down, Left, Right:
		g.Agent = g.Agent.Move(a)
	case PickUp:
		if g.Lifted == NoObject && g.TopObject(g.Agent) != NoObject {
			if err := g.pickUp(); err != nil {
				return StepResult{}, err
			}
		}
	case Drop:
		if g.Lifted != NoObject {
			if err := g.place(); err != nil {
				return StepResult{}, err
			}
		}
	}

	if g.Lifted != NoObject {
		g.Objects[g.Lifted].Position = g.Agent
	}

	done := e.task.Satisfied(g)
	reward := 0.0
	if done {
		reward = 1.0
	}

	g.Timer++
	return StepResult{
		Observation: g.Observation(),
		Reward:      reward,
		Terminated:  done,
		Truncated:   g.Timer == MaxTime,
		Info:        Info{ActionMask: g.ActionMask()},
	}, nil
}

// Grid returns a copy of the current world state
func (e *Env) Grid() Grid {
	return e.grid
}

// SetGrid replaces the world state, used by tests and scripted scenarios.
// The grid must satisfy Validate.
func (e *Env) SetGrid(g Grid) error {
	if err := g.Validate(); err != nil {
		return err
	}
	e.grid = g
	return nil
}

// Observe returns the observation and info for the current state
func (e *Env) Observe() (Observation, Info) {
	return e.grid.Observation(), Info{ActionMask: e.grid.ActionMask()}
}
