package internal

// Task is a deferred unit of work.
type Task func()

// TaskQueue is a FIFO of tasks.
type TaskQueue struct {
	tasks []Task

	// index of the next task to dequeue
	head int
}

func NewTaskQueue() *TaskQueue {
	return &TaskQueue{
		tasks: make([]Task, 0),
	}
}

func (q *TaskQueue) Enqueue(t Task) {
	q.tasks = append(q.tasks, t)
}

func (q *TaskQueue) Dequeue() (Task, bool) {
	if q.head >= len(q.tasks) {
		return nil, false
	}

	t := q.tasks[q.head]
	q.tasks[q.head] = nil
	q.head++

	if q.head == len(q.tasks) {
		q.tasks = q.tasks[:0]
		q.head = 0
	}

	return t, true
}

func (q *TaskQueue) Len() int {
	return len(q.tasks) - q.head
}

// Drain runs every task until the queue is empty,
// including the ones enqueued while draining.
func (q *TaskQueue) Drain(run func(Task)) {
	for {
		t, ok := q.Dequeue()
		if !ok {
			return
		}

		run(t)
	}
}

func (q *TaskQueue) Clear() {
	clear(q.tasks)
	q.tasks = q.tasks[:0]
	q.head = 0
}
