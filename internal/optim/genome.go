package optim

import (
	"math/rand"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"gonum.org/v1/gonum/spatial/r3"
)

// directionSpread is the σ of the per-component noise used to perturb a
// direction around the straight line to the target.
const directionSpread = 0.3

// seedPopulation returns n genomes: the baseline followed by a Latin
// hypercube sample of the scalar genes. Half of the sampled genomes aim
// near the baseline direction, the rest anywhere on the sphere.
func seedPopulation(rng *rand.Rand, n int, baseline flight.LaunchParameters, bounds Bounds) []flight.LaunchParameters {
	pop := make([]flight.LaunchParameters, n)
	pop[0] = baseline
	m := n - 1
	if m == 0 {
		return pop
	}

	rs := bounds.ranges()
	var strata [numGenes][]int
	for k := range strata {
		strata[k] = rng.Perm(m)
	}

	for i := 0; i < m; i++ {
		p := baseline
		for k, g := range genes(&p) {
			u := (float64(strata[k][i]) + rng.Float64()) / float64(m)
			*g = rs[k].Min + u*rs[k].Span()
		}
		if i%2 == 0 {
			p.TargetDirection = perturbDirection(rng, baseline.TargetDirection, directionSpread)
		} else {
			p.TargetDirection = randomDirection(rng)
		}
		pop[i+1] = p
	}
	return pop
}

// randomDirection is uniform on the unit sphere.
func randomDirection(rng *rand.Rand) r3.Vec {
	for {
		v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
		if u := dynamo.Unit(v); u != (r3.Vec{}) {
			return u
		}
	}
}

func perturbDirection(rng *rand.Rand, dir r3.Vec, sigma float64) r3.Vec {
	v := r3.Add(dir, r3.Vec{
		X: sigma * rng.NormFloat64(),
		Y: sigma * rng.NormFloat64(),
		Z: sigma * rng.NormFloat64(),
	})
	if u := dynamo.Unit(v); u != (r3.Vec{}) {
		return u
	}
	return randomDirection(rng)
}

// tournament picks the best of k random members of a ranked population.
func tournament(rng *rand.Rand, ranked []Candidate, k int) flight.LaunchParameters {
	best := rng.Intn(len(ranked))
	for i := 1; i < k; i++ {
		if j := rng.Intn(len(ranked)); j < best {
			best = j
		}
	}
	return ranked[best].Params
}

// crossover blends two parents gene by gene with a random weight per gene.
func crossover(rng *rand.Rand, a, b flight.LaunchParameters) flight.LaunchParameters {
	child := a
	ga, gb, gc := genes(&a), genes(&b), genes(&child)
	for k := range gc {
		w := rng.Float64()
		*gc[k] = *ga[k] + w*(*gb[k]-*ga[k])
	}
	dir := dynamo.Lerp(a.TargetDirection, b.TargetDirection, rng.Float64())
	if u := dynamo.Unit(dir); u != (r3.Vec{}) {
		child.TargetDirection = u
	}
	return child
}

// mutate adds Gaussian noise of sigma (a fraction of each gene's range) to
// each gene with probability rate and clamps the result into bounds.
func mutate(rng *rand.Rand, p flight.LaunchParameters, rate, sigma float64, bounds Bounds) flight.LaunchParameters {
	rs := bounds.ranges()
	for k, g := range genes(&p) {
		if rng.Float64() < rate {
			*g += rng.NormFloat64() * sigma * rs[k].Span()
		}
	}
	if rng.Float64() < rate {
		p.TargetDirection = perturbDirection(rng, p.TargetDirection, sigma)
	}
	return bounds.Clamp(p)
}

// annealedSigma shrinks the mutation scale linearly from scale at the first
// generation to scale/10 at the last.
func annealedSigma(scale float64, generation, generations int) float64 {
	if generations <= 1 {
		return scale
	}
	frac := float64(generation) / float64(generations-1)
	return scale * (1 - 0.9*frac)
}
