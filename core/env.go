package core

import "context"

type Environment interface {
	Reset(*EpisodeContext) (State, error)
	Step(Action, *StepContext) (State, Feedback, error)
}

type State interface {
	Hash() string
	Actions() []Action
}

type Action interface {
	Hash() string
}

// Feedback is what the environment reports alongside the next state
type Feedback struct {
	Reward     float64
	Terminated bool
	Truncated  bool
}

// Done is true when the episode must end
func (f Feedback) Done() bool {
	return f.Terminated || f.Truncated
}

type EpisodeContext struct {
	Context       context.Context
	Episode       int
	Horizon       int
	Run           int
	StartTimeStep int

	Trace *Trace

	err     error
	timeout bool
	doneCh  chan struct{}
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
		doneCh:  make(chan struct{}),
	}
}

func (e *EpisodeContext) Error(err error) {
	e.err = err
	e.Trace.SetError(err)
	close(e.doneCh)
}

func (e *EpisodeContext) Timeout() {
	e.timeout = true
	close(e.doneCh)
}

func (e *EpisodeContext) Finish() {
	close(e.doneCh)
}

func (e *EpisodeContext) IsError() bool {
	return e.err != nil
}

func (e *EpisodeContext) Err() error {
	return e.err
}

func (e *EpisodeContext) IsTimeout() bool {
	return e.timeout
}

func (e *EpisodeContext) Done() <-chan struct{} {
	return e.doneCh
}

type StepContext struct {
	Step int
	*EpisodeContext
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment for the given run number.
	NewEnvironment(int) Environment
}

// Painter abstracts a state into a coarser key. Analyzers count distinct
// keys to measure coverage.
type Painter func(State) string
