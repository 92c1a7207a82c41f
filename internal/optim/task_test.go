package optim_test

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RaLLy08/orbital-motion/internal/dynamo"
	"github.com/RaLLy08/orbital-motion/internal/optim"
	"github.com/RaLLy08/orbital-motion/internal/physics"
)

// endless never converges and has far more generations than a test waits
// for.
func endless() *optim.Genetic {
	opts := optim.DefaultOptions()
	opts.PopulationSize = 6
	opts.Generations = 100000
	opts.ConvergenceThreshold = 0
	opts.Sim.MaxTicks = 2000
	return optim.NewGenetic(opts)
}

var hop = optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 30)}

var _ = Describe("Task", func() {
	It("returns immediately and finishes in the background", func() {
		opts := optim.DefaultOptions()
		opts.PopulationSize = 20
		opts.Generations = 10
		req := optim.Request{Body: physics.Earth, Start: geo(0, 0), Target: geo(0, 0)}

		var calls atomic.Int32
		task := optim.Start(context.Background(), optim.NewGenetic(opts), req, func(optim.Progress) { calls.Add(1) })

		Eventually(task.Done(), 30*time.Second).Should(BeClosed())
		res, err := task.Wait(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Converged).To(BeTrue())
		Expect(calls.Load()).To(BeNumerically(">=", 1))
		Expect(task.Finished()).To(BeTrue())

		task.Cancel()
		res2, err := task.Wait(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(res2).To(Equal(res))
	})

	It("delivers no progress after Cancel returns", func() {
		first := make(chan struct{}, 1)
		var calls atomic.Int32
		task := optim.Start(context.Background(), endless(), hop, func(optim.Progress) {
			calls.Add(1)
			select {
			case first <- struct{}{}:
			default:
			}
		})

		Eventually(first, 30*time.Second).Should(Receive())
		task.Cancel()
		seen := calls.Load()

		res, err := task.Wait(context.Background())
		Expect(errors.Is(err, dynamo.ErrCanceled)).To(BeTrue())
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.Generations).To(BeNumerically(">=", 1))
		Expect(calls.Load()).To(Equal(seen))
	})

	It("stops when the parent context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		task := optim.Start(ctx, endless(), hop, func(optim.Progress) { cancel() })

		_, err := task.Wait(context.Background())
		Expect(errors.Is(err, dynamo.ErrCanceled)).To(BeTrue())
	})

	It("gives up waiting when the wait context ends", func() {
		task := optim.Start(context.Background(), endless(), hop, nil)
		defer task.Cancel()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := task.Wait(ctx)
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})
})

var _ = Describe("Supervisor", func() {
	It("cancels the running search when a new one supersedes it", func() {
		sup := optim.NewSupervisor(endless(), optim.Supersede)

		first := make(chan struct{}, 1)
		var oldCalls atomic.Int32
		old, err := sup.Submit(context.Background(), hop, func(optim.Progress) {
			oldCalls.Add(1)
			select {
			case first <- struct{}{}:
			default:
			}
		})
		Expect(err).NotTo(HaveOccurred())
		Eventually(first, 30*time.Second).Should(Receive())

		next, err := sup.Submit(context.Background(), hop, nil)
		Expect(err).NotTo(HaveOccurred())
		seen := oldCalls.Load()
		Expect(sup.Current()).To(BeIdenticalTo(next))

		_, err = old.Wait(context.Background())
		Expect(errors.Is(err, dynamo.ErrCanceled)).To(BeTrue())
		Expect(oldCalls.Load()).To(Equal(seen))

		sup.Cancel()
		_, err = next.Wait(context.Background())
		Expect(errors.Is(err, dynamo.ErrCanceled)).To(BeTrue())
	})

	It("lets a progress callback read Current while a new search supersedes it", func() {
		sup := optim.NewSupervisor(endless(), optim.Supersede)
		defer sup.Cancel()

		first := make(chan struct{})
		release := make(chan struct{})
		var once atomic.Bool
		old, err := sup.Submit(context.Background(), hop, func(optim.Progress) {
			if once.CompareAndSwap(false, true) {
				close(first)
				<-release
			}
			_ = sup.Current()
		})
		Expect(err).NotTo(HaveOccurred())
		Eventually(first, 30*time.Second).Should(BeClosed())

		submitted := make(chan *optim.Task, 1)
		go func() {
			defer GinkgoRecover()
			next, err := sup.Submit(context.Background(), hop, nil)
			Expect(err).NotTo(HaveOccurred())
			submitted <- next
		}()

		// let Submit start waiting on the blocked callback
		time.Sleep(50 * time.Millisecond)
		close(release)

		var next *optim.Task
		Eventually(submitted, 10*time.Second).Should(Receive(&next))
		Expect(sup.Current()).To(BeIdenticalTo(next))
		_, err = old.Wait(context.Background())
		Expect(errors.Is(err, dynamo.ErrCanceled)).To(BeTrue())
	})

	It("rejects a second search while one is running", func() {
		sup := optim.NewSupervisor(endless(), optim.Reject)
		defer sup.Cancel()

		_, err := sup.Submit(context.Background(), hop, nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = sup.Submit(context.Background(), hop, nil)
		Expect(err).To(MatchError(optim.ErrBusy))
		Expect(optim.Reject.String()).To(Equal("reject"))
	})
})
