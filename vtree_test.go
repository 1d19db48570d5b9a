package vtree

import (
	"strconv"
	"testing"

	"github.com/AnatoleLucet/vtree/vdom"
	"github.com/AnatoleLucet/vtree/vdom/memdom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuntime(t *testing.T) {
	t.Run("per goroutine", func(t *testing.T) {
		defer Release()

		ScheduleMacrotask(func() {})
		require.True(t, Flush())
		assert.Equal(t, 1, Clock())

		done := make(chan int)
		go func() {
			defer Release()
			done <- Clock()
		}()
		assert.Equal(t, 0, <-done)
	})

	t.Run("configure replaces the runtime", func(t *testing.T) {
		var errs []error
		Configure(WithErrorHandler(func(err error) { errs = append(errs, err) }))
		defer Release()

		ScheduleMicrotask(func() { panic("boom") })
		Flush()

		require.Len(t, errs, 1)
		assert.IsType(t, &TaskPanicError{}, errs[0])
	})

	t.Run("flush needs a manual host", func(t *testing.T) {
		Configure(WithHost(nopHost{}))
		defer Release()

		assert.False(t, Flush())
	})

	t.Run("reset", func(t *testing.T) {
		defer Release()
		ran := false

		ScheduleMacrotask(func() {})
		Flush()
		NextFrame().Write(func() { ran = true })
		Reset()
		Flush()

		assert.False(t, ran)
		assert.Equal(t, 0, Clock())
	})

	t.Run("frames", func(t *testing.T) {
		defer Release()
		log := []string{}

		NextFrame().After(func() { log = append(log, "after") })
		CurrentFrame().Write(func() {
			log = append(log, "write")
			CurrentFrame().Read(func() { log = append(log, "read") })
		})
		ScheduleActorExecution(&testActor{run: func() { log = append(log, "actor") }})
		Flush()

		assert.Equal(t, []string{"actor", "write", "read", "after"}, log)
	})
}

func TestMount(t *testing.T) {
	defer Release()

	doc := memdom.New()
	ctx := NewContext(doc, 0)

	count := 0
	view := func() vdom.Node {
		return vdom.E("button").WithText("clicked " + strconv.Itoa(count))
	}

	attached := false
	inst := Mount(ctx, doc.Body, vdom.E("div").WithHooks(&vdom.Hooks{
		Attached: func(*vdom.Instance) { attached = true },
	}).WithChildren(view()))

	assert.True(t, attached)
	assert.Equal(t, "<div><button>clicked 0</button></div>", doc.Body.InnerHTML())

	count = 1
	vdom.Invalidate(inst.Children()[0], ctx, view)
	Flush()
	assert.Equal(t, "<div><button>clicked 1</button></div>", doc.Body.InnerHTML())

	Unmount(ctx, inst)
	assert.True(t, inst.IsDisposed())
	assert.Empty(t, doc.Body.Children)
}

func TestNewContextDebug(t *testing.T) {
	Configure(WithDebug(true))
	defer Release()

	ctx := NewContext(memdom.New(), vdom.FlagAttached)
	assert.True(t, ctx.Debug())
	assert.True(t, ctx.Attached())
}

type nopHost struct{}

func (nopHost) RequestMicrotask(func()) {}
func (nopHost) RequestMacrotask(func()) {}
func (nopHost) RequestFrame(func())     {}

type testActor struct {
	run func()
}

func (a *testActor) Execute() { a.run() }
