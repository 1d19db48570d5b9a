// Package vtree schedules UI work on a single timeline and reconciles
// declarative node trees into a host tree.
//
// Every goroutine owns a runtime (a single one under wasm). The package level
// functions operate on the runtime of the calling goroutine.
package vtree

import (
	"github.com/AnatoleLucet/vtree/internal"
	"github.com/AnatoleLucet/vtree/vdom"
)

type (
	Task           = internal.Task
	Actor          = internal.Actor
	Frame          = internal.Frame
	Host           = internal.Host
	ManualHost     = internal.ManualHost
	ErrorReporter  = internal.ErrorReporter
	Option         = internal.Option
	Phase          = internal.Phase
	TaskPanicError = internal.TaskPanicError
)

const (
	PhaseIdle      = internal.PhaseIdle
	PhaseMicrotask = internal.PhaseMicrotask
	PhaseMacrotask = internal.PhaseMacrotask
	PhaseFrame     = internal.PhaseFrame
)

var ErrNilTask = internal.ErrNilTask

var (
	WithHost         = internal.WithHost
	WithLogger       = internal.WithLogger
	WithErrorHandler = internal.WithErrorHandler
	WithDebug        = internal.WithDebug
)

// NewManualHost creates a host driven explicitly with Flush, RunFrame and friends.
func NewManualHost() *ManualHost {
	return internal.NewManualHost()
}

// Configure replaces the runtime of the calling goroutine.
// Pending work of the previous runtime is dropped.
func Configure(opts ...Option) {
	internal.GetRuntime().Reset()
	internal.SetRuntime(internal.NewRuntime(opts...))
}

// Release forgets the runtime of the calling goroutine.
func Release() {
	internal.ReleaseRuntime()
}

// ScheduleMicrotask runs t at the next microtask checkpoint.
func ScheduleMicrotask(t Task) {
	internal.GetRuntime().ScheduleMicrotask(t)
}

// ScheduleMacrotask runs t in its own macrotask.
func ScheduleMacrotask(t Task) {
	internal.GetRuntime().ScheduleMacrotask(t)
}

// ScheduleActorExecution executes a on a macrotask, once while pending.
func ScheduleActorExecution(a Actor) {
	internal.GetRuntime().ScheduleActorExecution(a)
}

// CurrentFrame returns the frame being executed, or the next frame outside of one.
func CurrentFrame() *Frame {
	return internal.GetRuntime().CurrentFrame()
}

// NextFrame returns the frame run on the next paint.
func NextFrame() *Frame {
	return internal.GetRuntime().NextFrame()
}

// Clock is incremented after every microtask drain, macrotask and frame.
func Clock() int {
	return internal.GetRuntime().Clock()
}

// OnError registers a handler for task panics.
func OnError(fn func(error)) {
	internal.GetRuntime().OnError(fn)
}

// Flush drives a ManualHost until nothing is pending.
// It reports false when the runtime uses another host.
func Flush() bool {
	return internal.GetRuntime().Flush()
}

// Reset drops every pending task and frame and rewinds the clock.
func Reset() {
	internal.GetRuntime().Reset()
}

// NewContext returns a reconciler context applying changes to host and
// scheduling refreshes on the runtime of the calling goroutine.
func NewContext(host vdom.Host, flags vdom.Flags) *vdom.Context {
	r := internal.GetRuntime()

	if r.Debug() {
		flags |= vdom.FlagDebug
	}

	return &vdom.Context{
		Host:      host,
		Scheduler: r.Scheduler,
		Logger:    r.Logger(),
		Flags:     flags,
	}
}

// Mount renders n and appends it to parent, a node of a live host tree.
func Mount(ctx *vdom.Context, parent vdom.Ref, n vdom.Node) *vdom.Instance {
	ctx = ctx.With(vdom.FlagAttached)

	inst := vdom.Create(n, ctx)
	vdom.Render(inst, ctx.Without(vdom.FlagAttached))
	ctx.Host.InsertBefore(parent, inst.Ref(), nil)
	inst.Attach()

	return inst
}

// Unmount removes inst from its host parent and disposes it.
func Unmount(ctx *vdom.Context, inst *vdom.Instance) {
	if parent := ctx.Host.Parent(inst.Ref()); parent != nil {
		ctx.Host.RemoveChild(parent, inst.Ref())
	}
	inst.Dispose()
}
