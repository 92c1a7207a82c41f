package optim_test

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
)

func geo(lat, lon float64) *physics.GeoCoordinate {
	return &physics.GeoCoordinate{Latitude: lat, Longitude: lon}
}

func collect(events *[]optim.Progress) func(optim.Progress) {
	return func(p optim.Progress) { *events = append(*events, p) }
}

var _ = Describe("Genetic", func() {
	var opts optim.Options

	BeforeEach(func() {
		opts = optim.DefaultOptions()
		opts.Sim.MaxTicks = 5000
	})

	It("converges immediately when start and target coincide", func() {
		opts.PopulationSize = 20
		opts.Generations = 10
		req := optim.Request{Body: physics.Earth, Start: geo(10, 20), Target: geo(10, 20)}

		var events []optim.Progress
		res, err := optim.NewGenetic(opts).Run(context.Background(), req, collect(&events))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Best.Fitness).To(BeNumerically("<", opts.ConvergenceThreshold))
		Expect(res.Generations).To(BeNumerically("<=", 10))
		Expect(events).NotTo(BeEmpty())
		Expect(events[len(events)-1].Percent).To(Equal(100.0))
		Expect(events[len(events)-1].Converged).To(BeTrue())
	})

	It("never loses its best candidate and reports strictly increasing progress", func() {
		opts.PopulationSize = 12
		opts.Generations = 6
		opts.ConvergenceThreshold = 0
		req := optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 30)}

		var events []optim.Progress
		res, err := optim.NewGenetic(opts).Run(context.Background(), req, collect(&events))

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeFalse())
		Expect(res.Generations).To(Equal(6))
		Expect(events).To(HaveLen(6))
		for i := 1; i < len(events); i++ {
			Expect(events[i].Generation).To(Equal(events[i-1].Generation + 1))
			Expect(events[i].Percent).To(BeNumerically(">", events[i-1].Percent))
			Expect(events[i].Best.Fitness).To(BeNumerically("<=", events[i-1].Best.Fitness))
		}
		Expect(events[0].Percent).To(BeNumerically("~", 100.0/6, 1e-9))
		Expect(events[5].Percent).To(Equal(100.0))
		Expect(res.Best).To(Equal(events[5].Best))
		Expect(res.Evaluations).To(Equal(12 + 5*10))
	})

	It("is reproducible for a fixed seed regardless of worker count", func() {
		opts.PopulationSize = 8
		opts.Generations = 3
		opts.ConvergenceThreshold = 0
		req := optim.Request{Body: physics.Moon, Start: geo(0, 0), Target: geo(5, 5)}

		opts.Workers = 1
		a, err := optim.NewGenetic(opts).Run(context.Background(), req, nil)
		Expect(err).NotTo(HaveOccurred())

		opts.Workers = 4
		b, err := optim.NewGenetic(opts).Run(context.Background(), req, nil)
		Expect(err).NotTo(HaveOccurred())

		Expect(b.Best).To(Equal(a.Best))
	})

	DescribeTable("rejects bad requests before emitting progress",
		func(req optim.Request, target error) {
			var events []optim.Progress
			_, err := optim.NewGenetic(opts).Run(context.Background(), req, collect(&events))
			Expect(errors.Is(err, target)).To(BeTrue(), "got %v", err)
			Expect(events).To(BeEmpty())
		},
		Entry("missing start", optim.Request{Body: physics.Earth, Target: geo(0, 0)}, dynamo.ErrInvalidRequest),
		Entry("missing target", optim.Request{Body: physics.Earth, Start: geo(0, 0)}, dynamo.ErrInvalidRequest),
		Entry("missing body", optim.Request{Start: geo(0, 0), Target: geo(1, 1)}, dynamo.ErrInvalidRequest),
		Entry("latitude out of range", optim.Request{Body: physics.Earth, Start: geo(91, 0), Target: geo(0, 0)}, dynamo.ErrOutOfRange),
		Entry("longitude out of range", optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 200)}, dynamo.ErrOutOfRange),
		Entry("nan target", optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(math.NaN(), 0)}, dynamo.ErrOutOfRange),
	)

	DescribeTable("rejects invalid options",
		func(modify func(*optim.Options)) {
			modify(&opts)
			var events []optim.Progress
			req := optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 1)}
			_, err := optim.NewGenetic(opts).Run(context.Background(), req, collect(&events))
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue(), "got %v", err)
			Expect(events).To(BeEmpty())
		},
		Entry("population below two", func(o *optim.Options) { o.PopulationSize = 1 }),
		Entry("no elites", func(o *optim.Options) { o.EliteCount = 0 }),
	)

	It("returns ErrCanceled for a canceled context", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		req := optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 1)}
		_, err := optim.NewGenetic(opts).Run(ctx, req, nil)
		Expect(errors.Is(err, dynamo.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})
})

var _ = Describe("Antipodal trajectory", Label("slow"), func() {
	It("lands within 50 km of the antipode", func() {
		if testing.Short() {
			Skip("long-running search")
		}
		opts := optim.DefaultOptions()
		opts.PopulationSize = 50
		opts.Generations = 100
		req := optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 180)}

		res, err := optim.NewGenetic(opts).Run(context.Background(), req, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Best.Fitness).To(BeNumerically("<=", 50))
		Expect(res.Best.Landed).To(BeTrue())
	})
})
