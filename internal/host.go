package internal

// Host is the environment that decides when scheduled work actually runs.
type Host interface {
	// RequestMicrotask runs fn at the host's next microtask checkpoint.
	RequestMicrotask(fn func())

	// RequestMacrotask runs fn on a later turn of the host loop.
	RequestMacrotask(fn func())

	// RequestFrame runs fn before the host's next paint.
	RequestFrame(fn func())
}

// ErrorReporter is implemented by hosts that have an unhandled-error channel.
type ErrorReporter interface {
	ReportError(err error)
}

// ManualHost is a deterministic host driven explicitly by its owner.
// Nothing runs until one of the Run methods or Flush is called.
type ManualHost struct {
	microtasks *TaskQueue
	macrotasks *TaskQueue
	frames     *TaskQueue

	errors []error
}

func NewManualHost() *ManualHost {
	return &ManualHost{
		microtasks: NewTaskQueue(),
		macrotasks: NewTaskQueue(),
		frames:     NewTaskQueue(),
	}
}

func (h *ManualHost) RequestMicrotask(fn func()) { h.microtasks.Enqueue(fn) }
func (h *ManualHost) RequestMacrotask(fn func()) { h.macrotasks.Enqueue(fn) }
func (h *ManualHost) RequestFrame(fn func())     { h.frames.Enqueue(fn) }

func (h *ManualHost) ReportError(err error) {
	h.errors = append(h.errors, err)
}

// Errors returns and clears the errors reported so far.
func (h *ManualHost) Errors() []error {
	errs := h.errors
	h.errors = nil
	return errs
}

// Pending reports whether any host callback is waiting to run.
func (h *ManualHost) Pending() bool {
	return h.microtasks.Len() > 0 || h.macrotasks.Len() > 0 || h.frames.Len() > 0
}

// RunMicrotasks runs the microtask checkpoint.
func (h *ManualHost) RunMicrotasks() {
	h.microtasks.Drain(run)
}

// RunMacrotask runs a single macrotask followed by the microtask checkpoint.
func (h *ManualHost) RunMacrotask() bool {
	t, ok := h.macrotasks.Dequeue()
	if !ok {
		return false
	}

	t()
	h.RunMicrotasks()
	return true
}

// RunFrame runs the frame callbacks requested so far, like a single paint.
// Callbacks requested while running are left for the next frame.
func (h *ManualHost) RunFrame() bool {
	n := h.frames.Len()
	if n == 0 {
		return false
	}

	for range n {
		t, _ := h.frames.Dequeue()
		t()
		h.RunMicrotasks()
	}
	return true
}

// Flush runs the host until nothing is pending.
// Microtasks always run first, then macrotasks one at a time, then frames.
func (h *ManualHost) Flush() {
	for {
		h.RunMicrotasks()

		if h.RunMacrotask() {
			continue
		}

		if !h.RunFrame() {
			return
		}
	}
}

// Reset drops all pending callbacks and errors.
func (h *ManualHost) Reset() {
	h.microtasks.Clear()
	h.macrotasks.Clear()
	h.frames.Clear()
	h.errors = nil
}

func run(t Task) { t() }
