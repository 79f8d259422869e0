// Package dispatch provides delivery contexts for asynchronous results.
//
// Results produced on worker goroutines are handed to a Dispatcher, which decides
// where the receiving function runs. A Queue runs every function on one
// goroutine in submission order, so state owned by the receiver needs no locking.
package dispatch

import (
	"sync"
)

// Dispatcher runs fn on its delivery context.
type Dispatcher interface {
	Dispatch(fn func())
}

// Func adapts an ordinary function to Dispatcher.
type Func func(fn func())

// Dispatch calls f(fn).
func (f Func) Dispatch(fn func()) {
	f(fn)
}

// Inline runs fn on the calling goroutine.
var Inline Dispatcher = Func(func(fn func()) { fn() })

// Queue is a serial delivery context backed by a single goroutine.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
	exited bool
	done   chan struct{}
}

// NewQueue starts a serial queue. Call Close to stop it.
func NewQueue() *Queue {
	q := &Queue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.loop()
	return q
}

// Dispatch enqueues fn. It never blocks on fn itself. Once the queue
// goroutine has exited after Close, fn runs on the caller's goroutine
// instead, so every dispatched function runs exactly once.
func (q *Queue) Dispatch(fn func()) {
	q.mu.Lock()
	if q.exited {
		q.mu.Unlock()
		fn()
		return
	}
	q.tasks = append(q.tasks, fn)
	q.cond.Signal()
	q.mu.Unlock()
}

// Close drains the queue, including work dispatched while draining, and
// waits for the queue goroutine to exit.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		q.cond.Signal()
	}
	q.mu.Unlock()

	<-q.done
}

func (q *Queue) loop() {
	defer close(q.done)

	for {
		q.mu.Lock()
		for len(q.tasks) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.tasks) == 0 {
			q.exited = true
			q.mu.Unlock()
			return
		}
		fn := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()

		fn()
	}
}
