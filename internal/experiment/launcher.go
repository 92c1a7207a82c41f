package experiment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrNoTrajectory is returned by CreateVehicle before a search for the
// current start and target has finished.
var ErrNoTrajectory = errors.New("experiment: no trajectory computed")

// Launcher holds the launch site and target on one body and the best
// trajectory found between them.
//
// Progress callbacks passed to CalcTrajectory must not call back into the
// Launcher.
type Launcher struct {
	mu         sync.Mutex
	body       physics.Body
	start      *physics.GeoCoordinate
	target     *physics.GeoCoordinate
	supervisor *optim.Supervisor
	pending    *optim.Task
	best       *optim.Candidate
	logger     log.Logger
}

func NewLauncher(body physics.Body, s optim.Strategy) *Launcher {
	return &Launcher{
		body:       body,
		supervisor: optim.NewSupervisor(s, optim.Supersede),
		logger:     log.NewNopLogger(),
	}
}

func (l *Launcher) WithLogger(logger log.Logger) *Launcher {
	l.logger = log.With(logger, "component", "launcher", "body", l.body.Name)
	l.supervisor.WithLogger(l.logger)
	return l
}

func (l *Launcher) Body() physics.Body { return l.body }

// SetStart moves the launch site. Any computed or running trajectory is
// discarded.
func (l *Launcher) SetStart(g physics.GeoCoordinate) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.start = &g
	l.invalidate()
	return nil
}

// SetTarget moves the landing target. Any computed or running trajectory
// is discarded.
func (l *Launcher) SetTarget(g physics.GeoCoordinate) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("target: %w", err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = &g
	l.invalidate()
	return nil
}

func (l *Launcher) invalidate() {
	l.supervisor.Cancel()
	l.pending = nil
	l.best = nil
}

// Direction is the straight-line incline direction from start to target.
func (l *Launcher) Direction() (r3.Vec, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	start, target, err := l.points()
	if err != nil {
		return r3.Vec{}, err
	}
	return flight.StraightLineDirection(start, target), nil
}

func (l *Launcher) points() (start, target r3.Vec, err error) {
	if l.start == nil || l.target == nil {
		return r3.Vec{}, r3.Vec{}, fmt.Errorf("%w: start and target are required", dynamo.ErrInvalidRequest)
	}
	if start, err = l.body.SurfacePosition(*l.start); err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	if target, err = l.body.SurfacePosition(*l.target); err != nil {
		return r3.Vec{}, r3.Vec{}, err
	}
	return start, target, nil
}

// CalcTrajectory starts a search from start to target, superseding one
// that is still running. The result becomes available to CreateVehicle once
// the returned task is done.
func (l *Launcher) CalcTrajectory(ctx context.Context, onProgress func(optim.Progress)) (*optim.Task, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.start == nil || l.target == nil {
		return nil, fmt.Errorf("%w: start and target are required", dynamo.ErrInvalidRequest)
	}
	start, target := *l.start, *l.target
	req := optim.Request{Body: l.body, Start: &start, Target: &target}

	task, err := l.supervisor.Submit(ctx, req, onProgress)
	if err != nil {
		return nil, err
	}
	level.Info(l.logger).Log("msg", "trajectory requested", "start", start, "target", target)
	l.pending = task
	l.best = nil
	return task, nil
}

// settle takes the result of a finished search. Interrupted or failed
// searches leave no trajectory behind.
func (l *Launcher) settle() {
	if l.pending == nil || !l.pending.Finished() {
		return
	}
	res, err := l.pending.Wait(context.Background())
	l.pending = nil
	if err != nil {
		level.Warn(l.logger).Log("msg", "trajectory search failed", "err", err)
		return
	}
	if math.IsInf(res.Best.Fitness, 0) || math.IsNaN(res.Best.Fitness) {
		level.Warn(l.logger).Log("msg", "trajectory search found no flyable candidate")
		return
	}
	best := res.Best
	l.best = &best
	level.Info(l.logger).Log("msg", "trajectory ready", "fitness_km", best.Fitness, "converged", res.Converged)
}

// Trajectory returns the best candidate of the last finished search.
func (l *Launcher) Trajectory() (optim.Candidate, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settle()
	if l.best == nil {
		return optim.Candidate{}, false
	}
	return *l.best, true
}

// CreateVehicle puts a new vehicle on the launch site flying the computed
// trajectory.
func (l *Launcher) CreateVehicle() (*flight.Vehicle, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.settle()
	if l.best == nil {
		return nil, ErrNoTrajectory
	}
	start, _, err := l.points()
	if err != nil {
		return nil, err
	}
	return flight.NewVehicle(l.body, start, l.best.Params), nil
}

// Cancel stops a running search.
func (l *Launcher) Cancel() {
	l.supervisor.Cancel()
}
