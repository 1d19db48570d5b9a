package internal

import (
	"bytes"
	"errors"
	"testing"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(opts ...Option) (*Scheduler, *ManualHost) {
	h := NewManualHost()
	s := NewScheduler(append([]Option{WithHost(h)}, opts...)...)
	return s, h
}

func TestSchedulerOrder(t *testing.T) {
	t.Run("microtasks run before macrotasks", func(t *testing.T) {
		s, h := newTestScheduler()
		log := []string{}

		s.ScheduleMacrotask(func() { log = append(log, "macrotask") })
		s.ScheduleMicrotask(func() { log = append(log, "microtask") })
		h.Flush()

		assert.Equal(t, []string{"microtask", "macrotask"}, log)
	})

	t.Run("microtasks scheduled by a macrotask run before the next one", func(t *testing.T) {
		s, h := newTestScheduler()
		log := []string{}

		s.ScheduleMacrotask(func() {
			log = append(log, "macrotask 1")
			s.ScheduleMicrotask(func() { log = append(log, "microtask") })
		})
		s.ScheduleMacrotask(func() { log = append(log, "macrotask 2") })
		h.Flush()

		assert.Equal(t, []string{"macrotask 1", "microtask", "macrotask 2"}, log)
	})

	t.Run("microtasks scheduled by microtasks join the drain", func(t *testing.T) {
		s, h := newTestScheduler()
		log := []string{}

		s.ScheduleMicrotask(func() {
			log = append(log, "a")
			s.ScheduleMicrotask(func() { log = append(log, "c") })
		})
		s.ScheduleMicrotask(func() { log = append(log, "b") })
		h.Flush()

		assert.Equal(t, []string{"a", "b", "c"}, log)
		assert.Equal(t, 1, s.Clock())
	})

	t.Run("frame batches read, write and after tasks", func(t *testing.T) {
		s, h := newTestScheduler()
		log := []string{}
		i := 0

		step := func(want, next int) {
			assert.Equal(t, want, i)
			i = next
			log = append(log, "step")
		}

		s.NextFrame().Write(func() {
			s.CurrentFrame().After(func() { step(6, 7) })
			s.CurrentFrame().After(func() { step(7, 8) })
			s.CurrentFrame().Read(func() { step(1, 2) })
			s.CurrentFrame().Read(func() {
				step(2, 3)
				s.CurrentFrame().Write(func() { step(4, 5) })
				s.CurrentFrame().Write(func() { step(5, 6) })
				s.CurrentFrame().Read(func() { step(3, 4) })
			})
			s.CurrentFrame().Write(func() { step(0, 1) })
		})
		h.Flush()

		assert.Equal(t, 8, i)
		assert.Len(t, log, 8)
	})

	t.Run("next frame tasks wait for the next frame", func(t *testing.T) {
		s, h := newTestScheduler()
		log := []string{}

		s.NextFrame().Write(func() {
			log = append(log, "frame 1")
			s.NextFrame().Write(func() { log = append(log, "frame 2") })
		})

		require.True(t, h.RunFrame())
		assert.Equal(t, []string{"frame 1"}, log)

		require.True(t, h.RunFrame())
		assert.Equal(t, []string{"frame 1", "frame 2"}, log)
	})

	t.Run("current frame outside of a frame is the next frame", func(t *testing.T) {
		s, _ := newTestScheduler()
		assert.Same(t, s.NextFrame(), s.CurrentFrame())
	})

	t.Run("a single frame request per frame", func(t *testing.T) {
		s, h := newTestScheduler()

		s.NextFrame().Write(func() {})
		s.NextFrame().Read(func() {})
		s.CurrentFrame().After(func() {})

		assert.Equal(t, 1, h.frames.Len())
	})

	t.Run("component updates run by depth before writes", func(t *testing.T) {
		s, h := newTestScheduler()
		log := []string{}

		f := s.NextFrame()
		f.Write(func() { log = append(log, "write") })
		f.UpdateComponent(&testUpdater{name: "deep", depth: 2, log: &log})
		f.UpdateComponent(&testUpdater{name: "root", depth: 0, log: &log})
		h.Flush()

		assert.Equal(t, []string{"root", "deep", "write"}, log)
	})

	t.Run("actors are executed once while pending", func(t *testing.T) {
		s, h := newTestScheduler()
		a := &testActor{}

		s.ScheduleActorExecution(a)
		s.ScheduleActorExecution(a)
		h.Flush()
		assert.Equal(t, 1, a.runs)

		s.ScheduleActorExecution(a)
		h.Flush()
		assert.Equal(t, 2, a.runs)
	})
}

func TestSchedulerClock(t *testing.T) {
	t.Run("advances after a microtask drain", func(t *testing.T) {
		s, h := newTestScheduler()
		c := s.Clock()

		s.ScheduleMicrotask(func() { assert.Equal(t, c, s.Clock()) })
		h.Flush()

		assert.Equal(t, c+1, s.Clock())
	})

	t.Run("advances after each macrotask", func(t *testing.T) {
		s, h := newTestScheduler()
		c := s.Clock()

		s.ScheduleMacrotask(func() { assert.Equal(t, c, s.Clock()) })
		s.ScheduleMacrotask(func() { assert.Equal(t, c+1, s.Clock()) })
		h.Flush()

		assert.Equal(t, c+2, s.Clock())
	})

	t.Run("advances after a frame", func(t *testing.T) {
		s, h := newTestScheduler()
		c := s.Clock()

		s.NextFrame().After(func() { assert.Equal(t, c, s.Clock()) })
		h.Flush()

		assert.Equal(t, c+1, s.Clock())
	})

	t.Run("is stable across read and write rounds", func(t *testing.T) {
		s, h := newTestScheduler()
		c := s.Clock()
		seen := []int{}

		s.NextFrame().Write(func() {
			seen = append(seen, s.Clock())
			s.CurrentFrame().Read(func() {
				seen = append(seen, s.Clock())
				s.CurrentFrame().Write(func() {
					seen = append(seen, s.Clock())
				})
			})
		})
		h.Flush()

		assert.Equal(t, []int{c, c, c}, seen)
		assert.Equal(t, c+1, s.Clock())
	})

	t.Run("empty frame still advances", func(t *testing.T) {
		s, h := newTestScheduler()

		s.NextFrame()
		h.Flush()

		assert.Equal(t, 1, s.Clock())
	})
}

func TestSchedulerErrors(t *testing.T) {
	t.Run("a panicking task does not stop the others", func(t *testing.T) {
		var errs []error
		s, h := newTestScheduler(WithErrorHandler(func(err error) { errs = append(errs, err) }))
		log := []string{}

		s.ScheduleMicrotask(func() { panic("boom") })
		s.ScheduleMicrotask(func() { log = append(log, "after") })
		h.Flush()

		assert.Equal(t, []string{"after"}, log)
		require.Len(t, errs, 1)

		var panicErr *TaskPanicError
		require.True(t, errors.As(errs[0], &panicErr))
		assert.Equal(t, PhaseMicrotask, panicErr.Phase)
		assert.Equal(t, "boom", panicErr.Value)
		assert.NotEmpty(t, panicErr.Stack)
	})

	t.Run("unwraps error values", func(t *testing.T) {
		cause := errors.New("cause")
		var errs []error
		s, h := newTestScheduler()
		s.OnError(func(err error) { errs = append(errs, err) })

		s.NextFrame().Write(func() { panic(cause) })
		h.Flush()

		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], cause)
	})

	t.Run("reported to the host without handler", func(t *testing.T) {
		s, h := newTestScheduler()

		s.ScheduleMacrotask(func() { panic("boom") })
		h.Flush()

		errs := h.Errors()
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Error(), "macrotask task panicked")
		assert.Empty(t, h.Errors())
	})

	t.Run("nil task is ignored", func(t *testing.T) {
		s, h := newTestScheduler()

		s.ScheduleMicrotask(nil)
		s.ScheduleMacrotask(nil)
		s.NextFrame().Write(nil)

		assert.Equal(t, 0, h.microtasks.Len())
		assert.Equal(t, 0, h.macrotasks.Len())
	})

	t.Run("nil task panics in debug mode", func(t *testing.T) {
		s, _ := newTestScheduler(WithDebug(true))

		assert.PanicsWithError(t, ErrNilTask.Error(), func() {
			s.ScheduleMicrotask(nil)
		})
	})

	t.Run("logs panics", func(t *testing.T) {
		var buf bytes.Buffer
		logger := stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField(``)),
			stumpy.L.WithLevel(logiface.LevelTrace),
		).Logger()

		s, h := newTestScheduler(WithLogger(logger), WithErrorHandler(func(error) {}))
		s.ScheduleMicrotask(func() { panic("boom") })
		s.NextFrame()
		h.Flush()

		out := buf.String()
		assert.Contains(t, out, `"msg":"task panicked"`)
		assert.Contains(t, out, `"phase":"microtask"`)
		assert.Contains(t, out, `"msg":"frame completed"`)
	})
}

func TestSchedulerReset(t *testing.T) {
	s, h := newTestScheduler()
	ran := false

	s.ScheduleMicrotask(func() { ran = true })
	s.ScheduleMacrotask(func() { ran = true })
	s.NextFrame().Write(func() { ran = true })
	s.ScheduleMicrotask(func() {})
	h.Flush()
	require.True(t, ran)

	ran = false
	s.ScheduleMacrotask(func() { ran = true })
	s.NextFrame().Write(func() { ran = true })
	s.Reset()
	h.Flush()

	assert.False(t, ran)
	assert.Equal(t, 0, s.Clock())
	assert.False(t, h.Pending())

	s.ScheduleMicrotask(func() { ran = true })
	h.Flush()
	assert.True(t, ran)
}

type testUpdater struct {
	name  string
	depth int
	log   *[]string
}

func (u *testUpdater) Depth() int { return u.depth }
func (u *testUpdater) Refresh()   { *u.log = append(*u.log, u.name) }

type testActor struct {
	runs int
}

func (a *testActor) Execute() { a.runs++ }
