package loophost

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AnatoleLucet/vtree/internal"
	eventloop "github.com/joeycumines/go-eventloop"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer is written from the loop goroutine and read from the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func startLoop(t *testing.T, opts ...Option) *Host {
	t.Helper()

	loop, err := eventloop.New()
	require.NoError(t, err)

	h, err := New(loop, append([]Option{WithFrameInterval(time.Millisecond)}, opts...)...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)

	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Second)
		defer shutdownCancel()
		_ = loop.Shutdown(shutdownCtx)
		cancel()
	})

	return h
}

func wait[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the event loop")
		panic("unreachable")
	}
}

func TestHost(t *testing.T) {
	t.Run("runs every kind of task", func(t *testing.T) {
		h := startLoop(t)
		done := make(chan []string, 1)

		require.NoError(t, h.Do(func() {
			s := internal.NewScheduler(internal.WithHost(h))
			log := []string{}

			s.ScheduleMacrotask(func() { log = append(log, "macrotask") })
			s.ScheduleMicrotask(func() { log = append(log, "microtask") })
			s.NextFrame().After(func() {
				log = append(log, "frame")
				s.ScheduleMicrotask(func() { done <- log })
			})
		}))

		log := wait(t, done)
		require.NotEmpty(t, log)
		assert.Equal(t, "microtask", log[0])
		assert.ElementsMatch(t, []string{"microtask", "macrotask", "frame"}, log)
	})

	t.Run("clock advances on the loop", func(t *testing.T) {
		h := startLoop(t)
		done := make(chan int, 1)

		require.NoError(t, h.Do(func() {
			s := internal.NewScheduler(internal.WithHost(h))

			s.ScheduleMacrotask(func() {})
			s.ScheduleMacrotask(func() {
				s.ScheduleMacrotask(func() { done <- s.Clock() })
			})
		}))

		assert.Equal(t, 2, wait(t, done))
	})

	t.Run("reports unhandled panics", func(t *testing.T) {
		var buf syncBuffer
		logger := stumpy.L.New(
			stumpy.L.WithStumpy(stumpy.WithWriter(&buf), stumpy.WithTimeField(``)),
			stumpy.L.WithLevel(logiface.LevelTrace),
		).Logger()

		errs := make(chan error, 1)
		h := startLoop(t, WithLogger(logger), WithErrorHandler(func(err error) { errs <- err }))

		require.NoError(t, h.Do(func() {
			s := internal.NewScheduler(internal.WithHost(h))
			s.ScheduleMacrotask(func() { panic("boom") })
		}))

		err := wait(t, errs)
		assert.IsType(t, &internal.TaskPanicError{}, err)
		assert.Contains(t, buf.String(), `"msg":"unhandled task error"`)
	})
}
