package dynamo

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) <= tol
}

func TestUnit(t *testing.T) {
	tests := []struct {
		name string
		in   r3.Vec
		want r3.Vec
	}{
		{"zero", r3.Vec{}, r3.Vec{}},
		{"x axis", r3.Vec{X: 5}, r3.Vec{X: 1}},
		{"diagonal", r3.Vec{X: 3, Y: 4}, r3.Vec{X: 0.6, Y: 0.8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unit(tt.in); !near(got, tt.want, 1e-12) {
				t.Errorf("Unit(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestProjectOnPlane(t *testing.T) {
	got := ProjectOnPlane(r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{Z: 10})
	if !near(got, r3.Vec{X: 1, Y: 2}, 1e-12) {
		t.Errorf("expected {1 2 0}, got %v", got)
	}

	got = ProjectOnPlane(r3.Vec{Z: -4}, r3.Vec{Z: 1})
	if got != (r3.Vec{}) {
		t.Errorf("parallel vector should project to zero, got %v", got)
	}

	got = ProjectOnPlane(r3.Vec{X: 1}, r3.Vec{})
	if !near(got, r3.Vec{X: 1}, 0) {
		t.Errorf("zero normal should leave vector unchanged, got %v", got)
	}
}

func TestRotate(t *testing.T) {
	got := Rotate(r3.Vec{X: 1}, r3.Vec{Z: 1}, math.Pi/2)
	if !near(got, r3.Vec{Y: 1}, 1e-12) {
		t.Errorf("expected {0 1 0}, got %v", got)
	}

	got = Rotate(r3.Vec{X: 1}, r3.Vec{}, 1.0)
	if got != (r3.Vec{X: 1}) {
		t.Errorf("zero axis should not rotate, got %v", got)
	}

	v := r3.Vec{X: 1, Y: 2, Z: 3}
	got = Rotate(v, r3.Vec{X: 1, Y: 1}, 0.7)
	if math.Abs(r3.Norm(got)-r3.Norm(v)) > 1e-12 {
		t.Errorf("rotation changed length: %f -> %f", r3.Norm(v), r3.Norm(got))
	}
}

func TestLerpAndFinite(t *testing.T) {
	a, b := r3.Vec{X: 0}, r3.Vec{X: 10}
	if got := Lerp(a, b, 0.25); got.X != 2.5 {
		t.Errorf("expected 2.5, got %f", got.X)
	}
	if !IsFinite(a) {
		t.Error("zero vector should be finite")
	}
	if IsFinite(r3.Vec{Y: math.NaN()}) || IsFinite(r3.Vec{Z: math.Inf(-1)}) {
		t.Error("NaN/Inf vectors should not be finite")
	}
	if got := Abs(r3.Vec{X: -1, Y: 2, Z: -3}); got != (r3.Vec{X: 1, Y: 2, Z: 3}) {
		t.Errorf("Abs failed: got %v", got)
	}
}

func TestParallelFor(t *testing.T) {
	var sum atomic.Int64
	err := ParallelFor(context.Background(), 100, 4, func(ctx context.Context, i int) error {
		sum.Add(int64(i))
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Load() != 4950 {
		t.Errorf("expected 4950, got %d", sum.Load())
	}
}

func TestParallelForError(t *testing.T) {
	boom := errors.New("boom")
	err := ParallelFor(context.Background(), 10, 2, func(ctx context.Context, i int) error {
		if i == 3 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestParallelForCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := ParallelFor(ctx, 10, 1, func(ctx context.Context, i int) error { return nil })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSimulationError(t *testing.T) {
	err := &SimulationError{Tick: 150, Time: 1.5, Wrapped: ErrInvalidState}
	expected := "tick 150 (t=1.50s): dynamo: invalid state (NaN or Inf detected)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidState) {
		t.Error("SimulationError should unwrap to ErrInvalidState")
	}
}
