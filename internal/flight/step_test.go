package flight_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
)

// suborbital hop: lifts off after ~20s, tilts early and falls back a few
// hundred kilometres downrange.
func hopParams(direction r3.Vec) flight.LaunchParameters {
	return flight.LaunchParameters{
		TargetDirection:      direction,
		InclineStartAltitude: 0,
		InclineMaxDuration:   60,
		InclineRate:          0.01,
		FuelDuration:         200,
		MaxThrust:            0.03,
	}
}

func flyUntilLanded(b physics.Body, p flight.LaunchParameters, s flight.State, maxTicks int) (flight.State, []flight.State) {
	trace := []flight.State{s}
	for i := 0; i < maxTicks && !s.Landed; i++ {
		s = flight.Step(b, p, s, 1)
		trace = append(trace, s)
	}
	return s, trace
}

var _ = Describe("Step", func() {
	var (
		earth  physics.Body
		start  r3.Vec
		target r3.Vec
	)

	BeforeEach(func() {
		earth = physics.Earth
		var err error
		start, err = earth.SurfacePosition(physics.GeoCoordinate{Latitude: 0, Longitude: 0})
		Expect(err).NotTo(HaveOccurred())
		target, err = earth.SurfacePosition(physics.GeoCoordinate{Latitude: 0, Longitude: 20})
		Expect(err).NotTo(HaveOccurred())
	})

	Context("on the pad", func() {
		It("holds position while thrust is weaker than gravity", func() {
			p := flight.DefaultLaunchParameters(flight.StraightLineDirection(start, target))
			s := flight.NewState(start)

			for i := 0; i < 10; i++ {
				s = flight.Step(earth, p, s, 1)
			}

			Expect(s.Position).To(Equal(start))
			Expect(s.Velocity).To(Equal(r3.Vec{}))
			Expect(s.FlightTime).To(BeNumerically("~", 10, 1e-12))
			Expect(s.Landed).To(BeFalse())
		})

		It("stays grounded forever when the engine never beats gravity", func() {
			p := flight.DefaultLaunchParameters(flight.StraightLineDirection(start, target))
			p.MaxThrust = 0.001
			p.FuelDuration = 5
			s := flight.NewState(start)

			for i := 0; i < 10; i++ {
				s = flight.Step(earth, p, s, 1)
			}

			Expect(s.Grounded(p)).To(BeTrue())
			Expect(s.Terminal(p)).To(BeTrue())
			Expect(s.Position).To(Equal(start))
		})

		It("does not modify its input", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s := flight.NewState(start)
			s.FlightTime = 50
			before := s

			_ = flight.Step(earth, p, s, 1)
			Expect(s).To(Equal(before))
		})
	})

	Context("in flight", func() {
		It("keeps altitude consistent with position after every step", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			_, trace := flyUntilLanded(earth, p, flight.NewState(start), 300)

			for _, s := range trace[1:] {
				Expect(s.Altitude).To(BeNumerically("~", r3.Norm(s.Position)-earth.Radius, 1e-9))
				Expect(s.MaxAltitude).To(BeNumerically(">=", s.Altitude))
			}
		})

		It("lifts off vertically before the incline starts", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			p.InclineStartAltitude = 1000
			s := flight.NewState(start)
			for i := 0; i < 40; i++ {
				s = flight.Step(earth, p, s, 1)
			}

			Expect(s.Velocity.X).To(BeNumerically(">", 0))
			Expect(math.Abs(s.Velocity.Y)).To(BeNumerically("<", 1e-12))
			Expect(math.Abs(s.Velocity.Z)).To(BeNumerically("<", 1e-12))
			Expect(s.InclineAngle).To(BeZero())
		})

		It("clamps the incline to its maximum duration", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s, _ := flyUntilLanded(earth, p, flight.NewState(start), 150)

			Expect(s.InclineDuration).To(BeNumerically("~", p.InclineMaxDuration, 1e-9))
			Expect(s.InclineAngle).To(BeNumerically("~", p.InclineRate*p.InclineMaxDuration, 1e-9))
		})

		It("applies no thrust once the burn is over", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			_, trace := flyUntilLanded(earth, p, flight.NewState(start), 5000)

			for i := 1; i < len(trace); i++ {
				if trace[i-1].FlightTime >= p.FuelDuration {
					Expect(trace[i].Thrust).To(Equal(r3.Vec{}))
				}
			}
		})

		It("accumulates unsigned travelled distance per axis", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s, _ := flyUntilLanded(earth, p, flight.NewState(start), 400)

			Expect(s.Travelled.X).To(BeNumerically(">", 0))
			Expect(s.Travelled.Y).To(BeNumerically(">", 0))
			Expect(s.Travelled.Z).To(BeNumerically(">=", 0))
		})
	})

	Context("landing", func() {
		It("lands downrange and then stays put", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s, _ := flyUntilLanded(earth, p, flight.NewState(start), 5000)

			Expect(s.Landed).To(BeTrue())
			Expect(r3.Norm(s.Displacement())).To(BeNumerically(">", flight.LandingDisplacement))
			Expect(s.Velocity).To(Equal(r3.Vec{}))
			Expect(s.Thrust).To(Equal(r3.Vec{}))

			again := flight.Step(earth, p, s, 1)
			Expect(again).To(Equal(s))
		})

		It("zeroes velocity and thrust on touchdown without integrating", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s := flight.NewState(start)
			s.Position = earth.PositionAt(physics.GeoCoordinate{Latitude: 0, Longitude: 1}, -0.5)
			s.Velocity = r3.Vec{X: -1, Y: 0.1}
			s.FlightTime = 500

			next := flight.Step(earth, p, s, 1)

			Expect(next.Landed).To(BeTrue())
			Expect(next.Position).To(Equal(s.Position))
			Expect(next.Velocity).To(Equal(r3.Vec{}))
			Expect(next.Thrust).To(Equal(r3.Vec{}))
			Expect(next.FlightTime).To(Equal(s.FlightTime))
		})

		It("is idempotent once landed", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s := flight.NewState(start)
			s.Position = target
			s.Landed = true
			s.FlightTime = 812

			for i := 0; i < 5; i++ {
				Expect(flight.Step(earth, p, s, 1)).To(Equal(s))
			}
		})

		It("does not land while still close to the start", func() {
			p := hopParams(flight.StraightLineDirection(start, target))
			s := flight.NewState(start)
			s.Position = earth.PositionAt(physics.GeoCoordinate{}, -0.1)
			s.Velocity = r3.Vec{X: -0.01}

			next := flight.Step(earth, p, s, 1)
			Expect(next.Landed).To(BeFalse())
		})
	})

	Context("degenerate input", func() {
		It("does not panic at the center of the body", func() {
			p := hopParams(r3.Vec{X: 1})
			s := flight.NewState(r3.Vec{})
			Expect(func() { s = flight.Step(earth, p, s, 1) }).NotTo(Panic())
			Expect(s.Valid()).To(BeTrue())
			Expect(s.Gravity).To(Equal(r3.Vec{}))
		})

		It("flies vertically when the target direction has no horizontal part", func() {
			p := hopParams(r3.Vec{X: -1})
			s := flight.NewState(start)
			for i := 0; i < 40; i++ {
				s = flight.Step(earth, p, s, 1)
			}
			Expect(s.Velocity.X).To(BeNumerically(">", 0))
			Expect(math.Abs(s.Velocity.Y)).To(BeNumerically("<", 1e-12))
			Expect(s.Valid()).To(BeTrue())
		})
	})
})
