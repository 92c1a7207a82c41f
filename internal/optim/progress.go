package optim

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Progress is emitted once per completed generation.
type Progress struct {
	Generation  int
	Generations int
	// Percent is (Generation+1)/Generations·100, or exactly 100 for the
	// last event of a finished run.
	Percent     float64
	Best        Candidate
	MeanFitness float64
	StdFitness  float64
	Evaluations int
	Converged   bool
	Elapsed     time.Duration
}

func (p Progress) String() string {
	return fmt.Sprintf("gen %d/%d (%.0f%%) best=%.3fkm mean=%.1fkm",
		p.Generation+1, p.Generations, p.Percent, p.Best.Fitness, p.MeanFitness)
}

// Result is the outcome of a completed or interrupted search.
type Result struct {
	Best        Candidate
	Converged   bool
	Generations int
	Evaluations int
}

func percent(generation, generations int, terminal bool) float64 {
	if terminal {
		return 100
	}
	return float64(generation+1) / float64(generations) * 100
}

// fitnessStats returns the mean and standard deviation over the finite
// fitness values of pop.
func fitnessStats(pop []Candidate) (mean, std float64) {
	xs := make([]float64, 0, len(pop))
	for _, c := range pop {
		if !math.IsInf(c.Fitness, 0) && !math.IsNaN(c.Fitness) {
			xs = append(xs, c.Fitness)
		}
	}
	switch len(xs) {
	case 0:
		return math.Inf(1), 0
	case 1:
		return xs[0], 0
	}
	return stat.MeanStdDev(xs, nil)
}
