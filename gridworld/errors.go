package gridworld

import "errors"

var (
	// ErrInvalidAction is returned for an action outside [0, NumActions)
	ErrInvalidAction = errors.New("invalid action")
	// ErrInvalidConfiguration is returned when a task is built with bad objects
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvariantViolation signals a transition applied to a state it does not fit
	ErrInvariantViolation = errors.New("invariant violation")
	ErrUnknownTask        = errors.New("unknown task")
)
