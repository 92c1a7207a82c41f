package flight_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
)

var _ = Describe("Vehicle", func() {
	var start r3.Vec

	BeforeEach(func() {
		start = physics.Earth.PositionAt(physics.GeoCoordinate{}, 0)
	})

	It("hands out increasing IDs", func() {
		p := hopParams(r3.Vec{Y: 1})
		a := flight.NewVehicle(physics.Earth, start, p)
		b := flight.NewVehicle(physics.Earth, start, p)

		Expect(b.ID()).To(BeNumerically(">", a.ID()))
		Expect(a.ID().String()).To(HavePrefix("vehicle-"))
	})

	It("advances through Step", func() {
		p := hopParams(r3.Vec{Y: 1})
		v := flight.NewVehicle(physics.Earth, start, p)
		expected := flight.NewState(start)

		for i := 0; i < 60; i++ {
			v.Update(1)
			expected = flight.Step(physics.Earth, p, expected, 1)
		}

		Expect(v.State()).To(Equal(expected))
		Expect(v.Landed()).To(BeFalse())
	})

	It("interpolates snapshots between the last two ticks", func() {
		p := hopParams(r3.Vec{Y: 1})
		v := flight.NewVehicle(physics.Earth, start, p)
		for i := 0; i < 30; i++ {
			v.Update(1)
		}
		prevTime := v.State().FlightTime
		v.Update(1)

		first := v.Snapshot(0)
		last := v.Snapshot(1)
		mid := v.Snapshot(0.5)

		Expect(first.FlightTime).To(Equal(prevTime))
		Expect(last.FlightTime).To(Equal(v.State().FlightTime))
		Expect(mid.FlightTime).To(BeNumerically("~", prevTime+0.5, 1e-12))
		Expect(mid.Position.X).To(BeNumerically("~", (first.Position.X+last.Position.X)/2, 1e-9))
		Expect(mid.ID).To(Equal(v.ID()))
		Expect(last.ID).To(Equal(v.ID()))
	})
})

var _ = Describe("Interpolate", func() {
	It("clamps alpha to the unit interval", func() {
		prev := flight.NewState(r3.Vec{X: 1})
		cur := prev
		cur.Position = r3.Vec{X: 3}
		cur.Landed = true

		Expect(flight.Interpolate(prev, cur, -1).Position).To(Equal(prev.Position))
		Expect(flight.Interpolate(prev, cur, 2).Position).To(Equal(cur.Position))
		Expect(flight.Interpolate(prev, cur, 0.5).Position.X).To(BeNumerically("~", 2, 1e-12))
		Expect(flight.Interpolate(prev, cur, 0.5).Landed).To(BeTrue())
	})
})
