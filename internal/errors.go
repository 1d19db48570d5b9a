package internal

import (
	"errors"
	"fmt"
)

// ErrNilTask is reported when a nil task is scheduled in debug mode.
var ErrNilTask = errors.New("vtree: nil task")

// Phase identifies which kind of tick is running.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMicrotask
	PhaseMacrotask
	PhaseFrame
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseMicrotask:
		return "microtask"
	case PhaseMacrotask:
		return "macrotask"
	case PhaseFrame:
		return "frame"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// TaskPanicError wraps a value recovered from a panicking task.
type TaskPanicError struct {
	Phase Phase
	Clock int
	Value any
	Stack []byte
}

func (e *TaskPanicError) Error() string {
	return fmt.Sprintf("vtree: %s task panicked at clock %d: %v", e.Phase, e.Clock, e.Value)
}

// Unwrap exposes the panic value when it is itself an error.
func (e *TaskPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
