package optim

import (
	"context"
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Policy decides what a Supervisor does with a new request while a search
// is still running.
type Policy int

const (
	// Supersede cancels the running search and starts the new one.
	Supersede Policy = iota
	// Reject refuses the new request with ErrBusy.
	Reject
)

func (p Policy) String() string {
	if p == Reject {
		return "reject"
	}
	return "supersede"
}

// Supervisor keeps at most one search in flight.
//
// Submit and Cancel wait for a running progress callback to return before
// canceling its task, so a callback must not call Submit or Cancel on the
// same Supervisor. Current is safe to call from a callback.
type Supervisor struct {
	// control serializes Submit and Cancel; mu guards current only and is
	// never held while a task is canceled.
	control  sync.Mutex
	mu       sync.Mutex
	strategy Strategy
	policy   Policy
	current  *Task
	logger   log.Logger
}

func NewSupervisor(s Strategy, policy Policy) *Supervisor {
	return &Supervisor{strategy: s, policy: policy, logger: log.NewNopLogger()}
}

func (s *Supervisor) WithLogger(logger log.Logger) *Supervisor {
	s.logger = logger
	return s
}

// Submit starts a search for req. Under Supersede a running search is
// canceled first and delivers no further progress.
func (s *Supervisor) Submit(ctx context.Context, req Request, onProgress func(Progress)) (*Task, error) {
	s.control.Lock()
	defer s.control.Unlock()

	if cur := s.Current(); cur != nil && !cur.Finished() {
		if s.policy == Reject {
			return nil, ErrBusy
		}
		level.Debug(s.logger).Log("msg", "superseding running search")
		cur.Cancel()
	}

	task := Start(ctx, s.strategy, req, onProgress)
	s.mu.Lock()
	s.current = task
	s.mu.Unlock()
	return task, nil
}

// Current returns the most recently started task, or nil.
func (s *Supervisor) Current() *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Cancel stops the running search, if any.
func (s *Supervisor) Cancel() {
	s.control.Lock()
	defer s.control.Unlock()
	if cur := s.Current(); cur != nil {
		cur.Cancel()
	}
}
