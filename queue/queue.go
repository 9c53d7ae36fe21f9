package queue

import (
	"fmt"
)

// Queue is a FIFO of tasks to develop tree nodes.
// Tasks are pulled in the order they were pushed,
// which makes a tree grow breadth-first.
//
// A Queue is not safe for concurrent use: every tree
// is grown by a single goroutine.
type Queue struct {
	tasks   []*Task
	head    int
	tail    int
	pending int
}

// New returns an empty queue.
func New() *Queue {
	return &Queue{}
}

// Push appends the task at the end of the queue.
func (q *Queue) Push(t *Task) {
	if q.pending == len(q.tasks) {
		q.reorder()
		q.tasks = append(q.tasks, t)
		q.tail = 0
	} else {
		q.tasks[q.tail] = t
		q.tail = (q.tail + 1) % len(q.tasks)
	}
	q.pending++
}

// Pull removes and returns the task at the front of the
// queue. It returns nil and false if the queue is empty.
func (q *Queue) Pull() (*Task, bool) {
	if q.pending == 0 {
		return nil, false
	}
	t := q.tasks[q.head]
	q.tasks[q.head] = nil
	q.head = (q.head + 1) % len(q.tasks)
	q.pending--
	return t, true
}

// Len returns the number of pending tasks.
func (q *Queue) Len() int {
	return q.pending
}

func (q *Queue) String() string {
	return fmt.Sprintf("{Queue pending: %d head:%d tail:%d}", q.pending, q.head, q.tail)
}

// reorder rotates the ring so the oldest pending task is first,
// leaving the slice ready to grow at its end.
func (q *Queue) reorder() {
	if q.head == 0 {
		return
	}
	q.tasks = append(q.tasks[q.head:], q.tasks[:q.head]...)
	q.head = 0
}
