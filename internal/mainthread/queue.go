// Package mainthread carries work from background goroutines back to the
// render thread, which is the only goroutine allowed to touch scene state.
package mainthread

import "context"

// Queue is a FIFO of closures drained by the render thread.
type Queue struct {
	tasks chan func()
}

// NewQueue returns a queue buffering up to size pending tasks. Post blocks
// once the buffer is full.
func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{tasks: make(chan func(), size)}
}

// Post schedules fn to run on the next Drain. Safe for concurrent use.
func (q *Queue) Post(fn func()) {
	q.tasks <- fn
}

// Drain runs every task already queued and returns how many ran. It never blocks.
func (q *Queue) Drain() int {
	n := 0
	for {
		select {
		case fn := <-q.tasks:
			fn()
			n++
		default:
			return n
		}
	}
}

// RunOne blocks until one task is available, runs it, and returns.
func (q *Queue) RunOne(ctx context.Context) error {
	select {
	case fn := <-q.tasks:
		fn()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
