package internal

// Runtime is the scheduler bound to one goroutine by GetRuntime.
type Runtime struct {
	*Scheduler
}

func NewRuntime(opts ...Option) *Runtime {
	return &Runtime{
		Scheduler: NewScheduler(opts...),
	}
}

// Flush runs pending host callbacks until quiescent, when the host is a ManualHost.
// It reports whether the host could be flushed.
func (r *Runtime) Flush() bool {
	h, ok := r.Host().(*ManualHost)
	if !ok {
		return false
	}

	h.Flush()
	return true
}
