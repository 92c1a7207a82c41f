package optim

import (
	"fmt"
	"math"
	"sort"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/sim"
	"gonum.org/v1/gonum/spatial/r3"
)

// Candidate is one evaluated genome.
type Candidate struct {
	Params     flight.LaunchParameters `yaml:"params" json:"params"`
	Final      r3.Vec                  `yaml:"final" json:"final"`
	Fitness    float64                 `yaml:"fitness" json:"fitness"`
	FlightTime float64                 `yaml:"flight_time" json:"flight_time"`
	Landed     bool                    `yaml:"landed" json:"landed"`
	Ticks      int                     `yaml:"ticks" json:"ticks"`
	Outcome    sim.Outcome             `yaml:"-" json:"-"`
}

// newCandidate scores a finished run: the distance from where the vehicle
// ended up to the target. Runs that failed score +Inf.
func newCandidate(p flight.LaunchParameters, res *sim.Result, target r3.Vec) Candidate {
	c := Candidate{
		Params:     p,
		Final:      res.Final.Position,
		FlightTime: res.Final.FlightTime,
		Landed:     res.Final.Landed,
		Ticks:      res.Ticks,
		Outcome:    res.Outcome,
		Fitness:    r3.Norm(r3.Sub(res.Final.Position, target)),
	}
	if res.Err != nil || math.IsNaN(c.Fitness) {
		c.Fitness = math.Inf(1)
	}
	return c
}

// better orders candidates by fitness, then by shorter flight.
func better(a, b Candidate) bool {
	if a.Fitness != b.Fitness {
		return a.Fitness < b.Fitness
	}
	return a.FlightTime < b.FlightTime
}

func rank(pop []Candidate) {
	sort.SliceStable(pop, func(i, j int) bool { return better(pop[i], pop[j]) })
}

func (c Candidate) String() string {
	return fmt.Sprintf("fitness=%.3fkm t=%.0fs outcome=%s", c.Fitness, c.FlightTime, c.Outcome)
}
