package observable

import "sync"

// Dispatcher marshals callbacks onto a designated delivery context. The
// search pipeline performs exactly one dispatcher hop: everything above
// it runs on worker goroutines, everything below it (the visible
// properties and their subscribers) runs only on the dispatcher.
type Dispatcher interface {
	// Post schedules fn to run on the delivery context. Calls from a
	// single goroutine run in posting order.
	Post(fn func())
}

// SerialDispatcher runs posted callbacks one at a time on a dedicated
// goroutine, in FIFO order. It is the default delivery context for
// interactive consumers.
type SerialDispatcher struct {
	mu     sync.Mutex
	queue  chan func()
	closed bool
	done   chan struct{}
}

// Ensure SerialDispatcher implements Dispatcher.
var _ Dispatcher = (*SerialDispatcher)(nil)

// NewSerialDispatcher creates a SerialDispatcher and starts its delivery
// goroutine.
func NewSerialDispatcher() *SerialDispatcher {
	d := &SerialDispatcher{
		queue: make(chan func(), 128),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *SerialDispatcher) run() {
	for fn := range d.queue {
		fn()
	}
	close(d.done)
}

// Post enqueues fn. Posts after Close are dropped.
func (d *SerialDispatcher) Post(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.queue <- fn
}

// Close stops the dispatcher after draining already-queued callbacks and
// waits for the delivery goroutine to exit. Safe to call more than once.
func (d *SerialDispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}

// Immediate is a Dispatcher that runs callbacks synchronously on the
// calling goroutine. Used by the one-shot CLI path and by tests that
// want deterministic delivery.
type Immediate struct{}

// Ensure Immediate implements Dispatcher.
var _ Dispatcher = Immediate{}

// Post runs fn before returning.
func (Immediate) Post(fn func()) {
	fn()
}
