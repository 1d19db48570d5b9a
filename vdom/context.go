package vdom

import (
	"github.com/AnatoleLucet/vtree/internal"
	"github.com/joeycumines/logiface"
)

// Scheduler is the part of the task scheduler the reconciler depends on.
type Scheduler interface {
	Clock() int

	// ScheduleUpdate refreshes c in the write phase of the running frame,
	// or of the next one outside of a frame.
	ScheduleUpdate(c internal.Updater)
}

type Flags int

const (
	// FlagAttached marks a context whose tree is connected to a live host tree.
	FlagAttached Flags = 1 << iota

	// FlagDebug turns usage errors (duplicate keys, nil children) into panics.
	FlagDebug
)

// Context is passed through every reconciler operation.
type Context struct {
	Host      Host
	Scheduler Scheduler
	Logger    *logiface.Logger[logiface.Event]
	Flags     Flags
}

func (c *Context) Attached() bool { return c.Flags&FlagAttached != 0 }
func (c *Context) Debug() bool    { return c.Flags&FlagDebug != 0 }

// With returns a copy of the context with the given flags set.
func (c *Context) With(flags Flags) *Context {
	cp := *c
	cp.Flags |= flags
	return &cp
}

// Without returns a copy of the context with the given flags cleared.
func (c *Context) Without(flags Flags) *Context {
	cp := *c
	cp.Flags &^= flags
	return &cp
}

func (c *Context) clock() int {
	if c.Scheduler == nil {
		return 0
	}
	return c.Scheduler.Clock()
}
