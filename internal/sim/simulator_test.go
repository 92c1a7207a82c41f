package sim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/physics"
	"github.com/RaLLy08/orbital-motion/internal/sim"
)

func hopParams() flight.LaunchParameters {
	return flight.LaunchParameters{
		TargetDirection:      r3.Vec{Y: 1},
		InclineStartAltitude: 0,
		InclineMaxDuration:   60,
		InclineRate:          0.01,
		FuelDuration:         200,
		MaxThrust:            0.03,
	}
}

func padParams() flight.LaunchParameters {
	p := hopParams()
	p.MaxThrust = 0.001
	p.FuelDuration = 5
	return p
}

type tickCounter struct{ n float64 }

func (c *tickCounter) Name() string                  { return "ticks" }
func (c *tickCounter) Observe(flight.State, float64) { c.n++ }
func (c *tickCounter) Value() float64                { return c.n }
func (c *tickCounter) Reset()                        { c.n = 0 }

var _ = Describe("Simulator", func() {
	var (
		start r3.Vec
		cfg   sim.Config
	)

	BeforeEach(func() {
		start = physics.Earth.PositionAt(physics.GeoCoordinate{}, 0)
		cfg = sim.DefaultConfig()
	})

	It("runs a hop until it lands", func() {
		res, err := sim.New(physics.Earth).Run(context.Background(), hopParams(), start, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(sim.Landed))
		Expect(res.Final.Landed).To(BeTrue())
		Expect(res.Ticks).To(BeNumerically("<", cfg.MaxTicks))
	})

	It("stops once the vehicle is grounded", func() {
		res, err := sim.New(physics.Earth).Run(context.Background(), padParams(), start, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(sim.Grounded))
		Expect(res.Ticks).To(Equal(5))
		Expect(res.Final.Position).To(Equal(start))
	})

	It("reports an exhausted budget without error", func() {
		cfg.MaxTicks = 100
		p := flight.DefaultLaunchParameters(r3.Vec{Y: 1})
		res, err := sim.New(physics.Earth).Run(context.Background(), p, start, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(sim.Exhausted))
		Expect(res.Ticks).To(Equal(100))
		Expect(res.Outcome.String()).To(Equal("exhausted"))
	})

	It("stops an unpowered vehicle on an escape trajectory", func() {
		p := flight.DefaultLaunchParameters(r3.Vec{Y: 1})
		res, err := sim.New(physics.Earth).Run(context.Background(), p, start, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(sim.Escaped))
		Expect(res.Final.FlightTime).To(BeNumerically(">=", p.FuelDuration))
		Expect(res.Ticks).To(BeNumerically("<", cfg.MaxTicks))
		Expect(res.Final.Escaping(physics.Earth, p)).To(BeTrue())
	})

	It("rejects invalid configuration", func() {
		_, err := sim.New(physics.Earth).Run(context.Background(), hopParams(), start, sim.Config{Dt: 0, MaxTicks: 10})
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())

		_, err = sim.New(physics.Earth).Run(context.Background(), hopParams(), start, sim.Config{Dt: 1})
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	})

	It("stops on cancellation", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.New(physics.Earth).Run(ctx, hopParams(), start, cfg)
		Expect(err).To(MatchError(context.Canceled))
	})

	It("feeds metrics and observers", func() {
		s := sim.New(physics.Earth)
		counter := &tickCounter{}
		rec := sim.NewRecorder(0)
		s.AddMetric(counter)
		s.AddObserver(rec)

		res, err := s.Run(context.Background(), hopParams(), start, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Metrics["ticks"]).To(Equal(float64(res.Ticks)))
		Expect(rec.Len()).To(Equal(res.Ticks + 1))
		Expect(rec.LastTick()).To(Equal(res.Ticks))
		Expect(rec.Trail()[0].Position).To(Equal(start))
	})
})

var _ = Describe("Ensemble", func() {
	It("matches serial runs in input order", func() {
		start := physics.Earth.PositionAt(physics.GeoCoordinate{}, 0)
		cfg := sim.DefaultConfig()
		params := []flight.LaunchParameters{hopParams(), padParams(), hopParams()}
		params[2].InclineRate = 0.02

		results, err := sim.NewEnsemble(physics.Earth, 3).
			WithMetrics(func() []sim.Metric { return []sim.Metric{&tickCounter{}} }).
			Run(context.Background(), start, params, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, p := range params {
			serial, err := sim.New(physics.Earth).Run(context.Background(), p, start, cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(results[i].Final).To(Equal(serial.Final))
			Expect(results[i].Metrics["ticks"]).To(Equal(float64(serial.Ticks)))
		}
	})

	It("propagates configuration errors", func() {
		_, err := sim.NewEnsemble(physics.Earth, 2).Run(context.Background(), r3.Vec{X: 6371}, []flight.LaunchParameters{hopParams()}, sim.Config{})
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	})
})
