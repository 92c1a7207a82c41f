package sim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
)

var _ = Describe("Context", func() {
	var (
		ctx *sim.Context
		a   *flight.Vehicle
		b   *flight.Vehicle
	)

	BeforeEach(func() {
		ctx = sim.NewContext(sim.NewClock(1, 10, 0))
		start := physics.Earth.PositionAt(physics.GeoCoordinate{}, 0)
		a = flight.NewVehicle(physics.Earth, start, hopParams())
		b = flight.NewVehicle(physics.Earth, start, hopParams())
	})

	It("steps every registered vehicle once per tick", func() {
		rec := sim.NewRecorder(0)
		ctx.Launch(a, rec)
		ctx.Launch(b)

		f := ctx.Frame(1)
		Expect(f.Ticks).To(Equal(10))
		Expect(ctx.Tick()).To(Equal(10))
		Expect(a.State().FlightTime).To(BeNumerically("~", 10, 1e-12))
		Expect(b.State().FlightTime).To(BeNumerically("~", 10, 1e-12))
		Expect(rec.Len()).To(Equal(11))
	})

	It("lists vehicles in ID order and removes them", func() {
		ctx.Launch(b)
		ctx.Launch(a)

		vehicles := ctx.Registry.Vehicles()
		Expect(vehicles).To(HaveLen(2))
		Expect(vehicles[0].ID()).To(Equal(a.ID()))

		got, ok := ctx.Registry.Get(b.ID())
		Expect(ok).To(BeTrue())
		Expect(got).To(BeIdenticalTo(b))

		Expect(ctx.Remove(a.ID())).To(BeTrue())
		Expect(ctx.Remove(a.ID())).To(BeFalse())
		Expect(ctx.Registry.Len()).To(Equal(1))
		Expect(ctx.Snapshots(0.5)).To(HaveLen(1))
	})

	It("stops notifying observers after landing", func() {
		rec := sim.NewRecorder(0)
		ctx.Launch(a, rec)

		for i := 0; i < 100 && !a.Landed(); i++ {
			ctx.Frame(1)
		}
		Expect(a.Landed()).To(BeTrue())

		n := rec.Len()
		landed := a.State()
		ctx.Frame(1)
		Expect(rec.Len()).To(Equal(n))
		Expect(a.State()).To(Equal(landed))
		Expect(a.Snapshot(0.3).Position).To(Equal(landed.Position))
	})
})

var _ = Describe("Recorder", func() {
	It("keeps only the newest snapshots", func() {
		rec := sim.NewRecorder(3)
		s := flight.NewState(physics.Earth.PositionAt(physics.GeoCoordinate{}, 0))
		for i := 0; i < 5; i++ {
			s.FlightTime = float64(i)
			rec.OnStep(i, s)
		}

		Expect(rec.Len()).To(Equal(3))
		Expect(rec.LastTick()).To(Equal(4))
		Expect(rec.Trail()[0].FlightTime).To(Equal(2.0))
		Expect(rec.Altitudes()).To(HaveLen(3))

		rec.Reset()
		Expect(rec.Len()).To(BeZero())
		Expect(rec.LastTick()).To(Equal(-1))
	})
})
