package internal

import (
	"runtime/debug"

	"github.com/joeycumines/logiface"
)

// Actor is a unit of work registered for execution on a macrotask.
// Actors are deduplicated by identity and must be comparable, usually pointers.
type Actor interface {
	Execute()
}

type schedulerFlags int

const (
	flagMicrotaskRequested schedulerFlags = 1 << iota
	flagFrameRequested
)

// Scheduler orders microtasks, macrotasks and frame work on a single timeline.
// It is not safe for concurrent use: every method must be called from the
// goroutine (or event loop) the host runs callbacks on.
type Scheduler struct {
	// incremented once per completed microtask drain, macrotask or frame
	// used for change memoization (instance mtime)
	clock int

	host     Host
	logger   *logiface.Logger[logiface.Event]
	handlers []func(error)
	debug    bool

	microtasks *TaskQueue
	macrotasks *TaskQueue

	// actors waiting for their macrotask
	actors map[Actor]struct{}

	current *Frame
	next    *Frame

	flags schedulerFlags
	phase Phase

	// panics recovered during the running phase
	panics []error
}

func NewScheduler(opts ...Option) *Scheduler {
	o := resolveOptions(opts)

	s := &Scheduler{
		host:       o.host,
		logger:     o.logger,
		handlers:   o.handlers,
		debug:      o.debug,
		microtasks: NewTaskQueue(),
		macrotasks: NewTaskQueue(),
		actors:     make(map[Actor]struct{}),
	}
	s.current = newFrame(s)
	s.next = newFrame(s)

	return s
}

func (s *Scheduler) Clock() int {
	return s.clock
}

func (s *Scheduler) Host() Host {
	return s.host
}

func (s *Scheduler) Logger() *logiface.Logger[logiface.Event] {
	return s.logger
}

func (s *Scheduler) Debug() bool {
	return s.debug
}

// Phase returns the kind of tick currently running.
func (s *Scheduler) Phase() Phase {
	return s.phase
}

// OnError registers a handler called with every task panic.
func (s *Scheduler) OnError(fn func(error)) {
	if fn != nil {
		s.handlers = append(s.handlers, fn)
	}
}

func (s *Scheduler) ScheduleMicrotask(t Task) {
	if !s.checkTask(t) {
		return
	}

	s.microtasks.Enqueue(t)

	if s.flags&flagMicrotaskRequested == 0 {
		s.flags |= flagMicrotaskRequested
		s.host.RequestMicrotask(s.runMicrotasks)
	}
}

func (s *Scheduler) ScheduleMacrotask(t Task) {
	if !s.checkTask(t) {
		return
	}

	s.macrotasks.Enqueue(t)
	s.host.RequestMacrotask(s.runMacrotask)
}

// ScheduleActorExecution queues a single execution of the actor.
// An actor already waiting for execution is not queued twice.
func (s *Scheduler) ScheduleActorExecution(a Actor) {
	if a == nil {
		s.checkTask(nil)
		return
	}

	if _, ok := s.actors[a]; ok {
		return
	}
	s.actors[a] = struct{}{}

	s.ScheduleMacrotask(func() {
		delete(s.actors, a)
		a.Execute()
	})
}

// CurrentFrame returns the frame being executed.
// Outside of a frame it returns the next frame.
func (s *Scheduler) CurrentFrame() *Frame {
	if s.inFrame() {
		return s.current
	}

	return s.NextFrame()
}

// NextFrame returns the frame that runs on the host's next paint.
func (s *Scheduler) NextFrame() *Frame {
	s.requestFrame()
	return s.next
}

// Reset drops every pending task and frame and rewinds the clock.
// Host callbacks already requested find nothing to do.
func (s *Scheduler) Reset() {
	s.clock = 0
	s.microtasks.Clear()
	s.macrotasks.Clear()
	clear(s.actors)
	s.current.reset()
	s.next.reset()
	s.flags = 0
	s.phase = PhaseIdle
	s.panics = nil

	if h, ok := s.host.(*ManualHost); ok {
		h.Reset()
	}
}

func (s *Scheduler) inFrame() bool {
	return s.phase == PhaseFrame
}

// activeFrame resolves which frame a task added to f belongs to.
// Only the frame being executed accepts work for itself, anything else goes
// to the next frame.
func (s *Scheduler) activeFrame(f *Frame) *Frame {
	if s.inFrame() && f == s.current {
		return f
	}

	s.requestFrame()
	return s.next
}

func (s *Scheduler) enqueueFrameTask(f *Frame, b bucket, t Task) {
	if !s.checkTask(t) {
		return
	}

	s.activeFrame(f).queue(b).Enqueue(t)
}

func (s *Scheduler) requestFrame() {
	if s.flags&flagFrameRequested != 0 {
		return
	}

	s.flags |= flagFrameRequested
	s.host.RequestFrame(s.runFrame)
}

func (s *Scheduler) runMicrotasks() {
	if s.microtasks.Len() == 0 {
		s.flags &^= flagMicrotaskRequested
		return
	}

	// the flag stays set while draining, microtasks queued by microtasks
	// join the running drain instead of requesting another checkpoint
	prev := s.enter(PhaseMicrotask)
	s.microtasks.Drain(s.exec)
	s.flags &^= flagMicrotaskRequested
	s.clock++
	s.leave(prev)
}

func (s *Scheduler) runMacrotask() {
	t, ok := s.macrotasks.Dequeue()
	if !ok {
		return
	}

	prev := s.enter(PhaseMacrotask)
	s.exec(t)
	s.clock++
	s.leave(prev)
}

func (s *Scheduler) runFrame() {
	if s.flags&flagFrameRequested == 0 {
		// reset since the request
		return
	}
	s.flags &^= flagFrameRequested

	s.current, s.next = s.next, s.current
	frame := s.current

	prev := s.enter(PhaseFrame)
	rounds := frame.run(s.exec)
	frame.reset()
	s.clock++

	s.logger.Trace().
		Int("clock", s.clock).
		Int("rounds", rounds).
		Log("frame completed")

	s.leave(prev)
}

func (s *Scheduler) enter(phase Phase) Phase {
	prev := s.phase
	s.phase = phase
	return prev
}

func (s *Scheduler) leave(prev Phase) {
	s.phase = prev

	panics := s.panics
	s.panics = nil

	for _, err := range panics {
		s.report(err)
	}
}

func (s *Scheduler) exec(t Task) {
	defer func() {
		if r := recover(); r != nil {
			err := &TaskPanicError{
				Phase: s.phase,
				Clock: s.clock,
				Value: r,
				Stack: debug.Stack(),
			}

			s.logger.Err().
				Err(err).
				Str("phase", s.phase.String()).
				Int("clock", s.clock).
				Log("task panicked")

			s.panics = append(s.panics, err)
		}
	}()

	t()
}

// report delivers a task error to the handlers, the host, or re-panics.
func (s *Scheduler) report(err error) {
	if len(s.handlers) > 0 {
		for _, handler := range s.handlers {
			handler(err)
		}
		return
	}

	if r, ok := s.host.(ErrorReporter); ok {
		r.ReportError(err)
		return
	}

	panic(err)
}

func (s *Scheduler) checkTask(t Task) bool {
	if t != nil {
		return true
	}

	if s.debug {
		panic(ErrNilTask)
	}

	s.logger.Warning().Err(ErrNilTask).Log("ignoring nil task")
	return false
}

// ScheduleUpdate refreshes c in the running frame, or in the next one.
func (s *Scheduler) ScheduleUpdate(c Updater) {
	s.CurrentFrame().UpdateComponent(c)
}
