package gridworld

import (
	"fmt"

	"github.com/zeu5/gridroboman/core"
	"github.com/zeu5/gridroboman/util"
)

// State is the core.State view of an environment step: the observation,
// the blocked-action mask and a copy of the grid it was derived from.
type State struct {
	Observation Observation
	Mask        ActionMask
	Grid        Grid
}

var _ core.State = &State{}

func newState(e *Env) *State {
	obs, info := e.Observe()
	return &State{
		Observation: obs,
		Mask:        info.ActionMask,
		Grid:        e.Grid(),
	}
}

// Hash identifies the state by its observation. The timer is not part of
// the observation and so does not split states.
func (s *State) Hash() string {
	return util.JsonHash(s.Observation)
}

// Actions returns the actions the mask does not block
func (s *State) Actions() []core.Action {
	legal := s.Mask.Legal()
	out := make([]core.Action, len(legal))
	for i, a := range legal {
		out[i] = a
	}
	return out
}

// Environment adapts Env to core.Environment
type Environment struct {
	env *Env
}

var _ core.Environment = &Environment{}

// NewEnvironment builds an adapter whose random stream starts at seed
func NewEnvironment(task Task, seed int64) (*Environment, error) {
	env, err := New(task)
	if err != nil {
		return nil, err
	}
	env.Seed(seed)
	return &Environment{env: env}, nil
}

func (e *Environment) Env() *Env {
	return e.env
}

func (e *Environment) Reset(_ *core.EpisodeContext) (core.State, error) {
	e.env.Reset(nil)
	return newState(e.env), nil
}

func (e *Environment) Step(a core.Action, _ *core.StepContext) (core.State, core.Feedback, error) {
	action, ok := a.(Action)
	if !ok {
		return nil, core.Feedback{}, fmt.Errorf("%w: %T is not a gridworld action", ErrInvalidAction, a)
	}
	res, err := e.env.Step(action)
	if err != nil {
		return nil, core.Feedback{}, err
	}
	return newState(e.env), core.Feedback{
		Reward:     res.Reward,
		Terminated: res.Terminated,
		Truncated:  res.Truncated,
	}, nil
}

// EnvironmentConstructor hands each experiment its own environment. The
// runner passes the run number as the instance, and instance i draws from
// the stream seeded with Seed+i.
type EnvironmentConstructor struct {
	task Task
	seed int64
}

var _ core.EnvironmentConstructor = &EnvironmentConstructor{}

func NewEnvironmentConstructor(task Task, seed int64) (*EnvironmentConstructor, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}
	return &EnvironmentConstructor{task: task, seed: seed}, nil
}

func (c *EnvironmentConstructor) NewEnvironment(instance int) core.Environment {
	// the task was validated by NewEnvironmentConstructor
	env, _ := NewEnvironment(c.task, c.seed+int64(instance))
	return env
}
