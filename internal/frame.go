package internal

type bucket int

const (
	bucketWrite bucket = iota
	bucketRead
	bucketAfter
)

// Frame batches the work of a single paint cycle.
// Writes and reads are never interleaved: all pending writes run, then all
// pending reads, until both are empty. After tasks run once the frame settled.
type Frame struct {
	s *Scheduler

	components *DepthQueue
	write      *TaskQueue
	read       *TaskQueue
	after      *TaskQueue
}

func newFrame(s *Scheduler) *Frame {
	return &Frame{
		s:          s,
		components: NewDepthQueue(),
		write:      NewTaskQueue(),
		read:       NewTaskQueue(),
		after:      NewTaskQueue(),
	}
}

// Write schedules a task that mutates the tree.
func (f *Frame) Write(t Task) { f.s.enqueueFrameTask(f, bucketWrite, t) }

// Read schedules a task that measures the tree.
func (f *Frame) Read(t Task) { f.s.enqueueFrameTask(f, bucketRead, t) }

// After schedules a task that observes the settled frame.
func (f *Frame) After(t Task) { f.s.enqueueFrameTask(f, bucketAfter, t) }

// UpdateComponent schedules a component refresh in the frame's write phase.
// Shallower components refresh first and a component is refreshed once per frame.
func (f *Frame) UpdateComponent(c Updater) {
	if c == nil {
		return
	}

	f = f.s.activeFrame(f)
	f.components.Insert(c)
}

func (f *Frame) queue(b bucket) *TaskQueue {
	switch b {
	case bucketRead:
		return f.read
	case bucketAfter:
		return f.after
	default:
		return f.write
	}
}

func (f *Frame) hasWork() bool {
	return f.components.Len() > 0 || f.write.Len() > 0 || f.read.Len() > 0
}

func (f *Frame) empty() bool {
	return !f.hasWork() && f.after.Len() == 0
}

func (f *Frame) reset() {
	f.components.Clear()
	f.write.Clear()
	f.read.Clear()
	f.after.Clear()
}

// run drains the frame and returns the number of write/read rounds.
func (f *Frame) run(exec func(Task)) int {
	rounds := 0

	for !f.empty() {
		for f.hasWork() {
			rounds++

			f.components.Drain(func(c Updater) { exec(c.Refresh) })
			f.write.Drain(exec)
			f.read.Drain(exec)
		}

		f.after.Drain(exec)
	}

	return rounds
}
