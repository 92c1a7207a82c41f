package optim

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy is returned by a Supervisor with the Reject policy while another
// search is still running.
var ErrBusy = errors.New("optim: a search is already running")

// Task is a search running in the background.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	// mu is held while a progress callback runs so that Cancel can wait
	// for it and no callback starts after Cancel returns.
	mu       sync.Mutex
	canceled bool

	result Result
	err    error
}

// Start runs s in a new goroutine and returns immediately. onProgress is
// called from that goroutine, never concurrently with itself. A callback
// that wants to stop the search should cancel ctx rather than call
// Task.Cancel, which waits for the callback to return.
func Start(ctx context.Context, s Strategy, req Request, onProgress func(Progress)) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer cancel()
		t.result, t.err = s.Run(ctx, req, t.guard(ctx, onProgress))
	}()
	return t
}

func (t *Task) guard(ctx context.Context, fn func(Progress)) func(Progress) {
	return func(p Progress) {
		if fn == nil {
			return
		}
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.canceled || ctx.Err() != nil {
			return
		}
		fn(p)
	}
}

// Cancel stops the search. Once Cancel returns no further progress
// callback will start. It is safe to call more than once and after the
// task has finished.
func (t *Task) Cancel() {
	t.mu.Lock()
	t.canceled = true
	t.mu.Unlock()
	t.cancel()
}

// Done is closed when the search has returned.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the search returns or ctx is done.
func (t *Task) Wait(ctx context.Context) (Result, error) {
	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Finished reports whether the search has returned.
func (t *Task) Finished() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}
