package toolkit

import "runtime/debug"

// ThreadFunc is the body of a worker. Its return value is the thread status.
type ThreadFunc func(arg any) int

// ThreadPanicked is the status of a worker that panicked.
const ThreadPanicked = -1

// Thread is a named worker goroutine that can be joined once for its status.
type Thread struct {
	name   string
	done   chan struct{}
	status int
}

// Name returns the name the thread was created with.
func (t *Thread) Name() string {
	return t.name
}

// Wait blocks until the worker returns and reports its status.
func (t *Thread) Wait() int {
	<-t.done
	return t.status
}

// Done is closed when the worker has returned.
func (t *Thread) Done() <-chan struct{} {
	return t.done
}

// CreateThread starts fn(arg) on a new goroutine. A panic inside fn is
// recovered, logged with its stack and reported as ThreadPanicked.
func (tk *Toolkit) CreateThread(name string, fn ThreadFunc, arg any) *Thread {
	th := &Thread{name: name, done: make(chan struct{})}
	tk.log.Debugf("Starting thread %q", name)
	go func() {
		defer close(th.done)
		defer func() {
			if r := recover(); r != nil {
				tk.log.Errorf("Thread %q crashed: %v\n%s", name, r, debug.Stack())
				th.status = ThreadPanicked
			}
		}()
		th.status = fn(arg)
	}()
	return th
}
