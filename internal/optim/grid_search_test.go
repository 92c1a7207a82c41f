package optim_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/flight"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
)

var _ = Describe("GridSearch", func() {
	var opts optim.Options

	BeforeEach(func() {
		opts = optim.DefaultOptions()
		opts.PopulationSize = 4
		opts.Sim.MaxTicks = 3000
	})

	It("finds the grounded point when start and target coincide", func() {
		gs := optim.NewGridSearch(
			[]string{flight.ParamMaxThrust, flight.ParamFuelDuration},
			[][]float64{{0.05, 0.002}, optim.Linspace(100, 300, 3)},
			opts,
		)
		req := optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 0)}

		var events []optim.Progress
		res, err := gs.Run(context.Background(), req, collect(&events))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(res.Best.Params.MaxThrust).To(Equal(0.002))
		Expect(res.Best.Fitness).To(BeZero())
		Expect(events[len(events)-1].Percent).To(Equal(100.0))
	})

	It("evaluates every combination in batches", func() {
		opts.ConvergenceThreshold = 0
		gs := optim.NewGridSearch(
			[]string{flight.ParamInclineRate, flight.ParamInclineStartAltitude},
			[][]float64{optim.Linspace(0.005, 0.02, 3), {0, 10, 20}},
			opts,
		)

		var events []optim.Progress
		res, err := gs.Run(context.Background(), hop, collect(&events))
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Evaluations).To(Equal(9))
		Expect(events).To(HaveLen(3))
		for i := 1; i < len(events); i++ {
			Expect(events[i].Percent).To(BeNumerically(">", events[i-1].Percent))
			Expect(events[i].Best.Fitness).To(BeNumerically("<=", events[i-1].Best.Fitness))
		}
	})

	It("rejects unknown parameters and mismatched ranges", func() {
		_, err := optim.NewGridSearch([]string{"drag"}, [][]float64{{1}}, opts).Run(context.Background(), hop, nil)
		Expect(errors.Is(err, dynamo.ErrUnknown)).To(BeTrue())

		_, err = optim.NewGridSearch([]string{flight.ParamMaxThrust}, nil, opts).Run(context.Background(), hop, nil)
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	})
})

var _ = Describe("Linspace", func() {
	It("includes both ends", func() {
		Expect(optim.Linspace(0, 1, 5)).To(Equal([]float64{0, 0.25, 0.5, 0.75, 1}))
		Expect(optim.Linspace(3, 9, 1)).To(Equal([]float64{3}))

		thrust := optim.Linspace(0.001, 0.1, 4)
		Expect(thrust[0]).To(Equal(0.001))
		Expect(thrust[3]).To(Equal(0.1))
	})
})
