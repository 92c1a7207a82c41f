package sim

import (
	"sync"

	"github.com/RaLLy08/orbital-motion/internal/flight"
)

// DefaultTrailLimit bounds the history a Recorder keeps.
const DefaultTrailLimit = 5000

// Recorder is an Observer that keeps the most recent snapshots of a flight,
// oldest first.
type Recorder struct {
	mu    sync.Mutex
	limit int
	trail []flight.Snapshot
	ticks []int
}

// NewRecorder keeps at most limit snapshots; limit <= 0 uses
// DefaultTrailLimit.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultTrailLimit
	}
	return &Recorder{limit: limit}
}

func (r *Recorder) OnStep(tick int, s flight.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.trail) == r.limit {
		copy(r.trail, r.trail[1:])
		copy(r.ticks, r.ticks[1:])
		r.trail = r.trail[:r.limit-1]
		r.ticks = r.ticks[:r.limit-1]
	}
	r.trail = append(r.trail, s.Snapshot())
	r.ticks = append(r.ticks, tick)
}

// Trail returns a copy of the recorded snapshots.
func (r *Recorder) Trail() []flight.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]flight.Snapshot, len(r.trail))
	copy(out, r.trail)
	return out
}

// Altitudes returns the recorded altitude series, for plotting.
func (r *Recorder) Altitudes() []float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]float64, len(r.trail))
	for i, s := range r.trail {
		out[i] = s.Altitude
	}
	return out
}

// LastTick is the tick of the newest snapshot, or -1 when empty.
func (r *Recorder) LastTick() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ticks) == 0 {
		return -1
	}
	return r.ticks[len(r.ticks)-1]
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.trail)
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trail = r.trail[:0]
	r.ticks = r.ticks[:0]
}
