package frame_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/isoflow/internal/coupling"
	"github.com/san-kum/isoflow/internal/field"
	"github.com/san-kum/isoflow/internal/frame"
	"github.com/san-kum/isoflow/internal/solver"
)

var _ = Describe("Pipeline", func() {
	var (
		params solver.Params
		levels []float64
	)

	BeforeEach(func() {
		params = solver.DefaultParams()
		params.Width, params.Height = 24, 16
		params.Dt = 0.1
		levels = field.Sweep{Min: 0.25, Max: 2, Step: 0.25}.Levels()
	})

	newAdapter := func(source string, opts ...coupling.Option) *coupling.Adapter {
		p, err := solver.NewRegistry().NewParticipant(source, params)
		Expect(err).NotTo(HaveOccurred())
		a, err := coupling.New(p, append([]coupling.Option{coupling.WithInitialDt(params.Dt)}, opts...)...)
		Expect(err).NotTo(HaveOccurred())
		return a
	}

	valueKey := coupling.Key{Mesh: solver.MeshName, Field: solver.FieldValue}

	Context("with a bounded pulse", func() {
		BeforeEach(func() {
			params.Duration = 1
		})

		It("renders the final published state once", func() {
			a := newAdapter("pulse")
			Expect(a.Run(context.Background())).To(Succeed())
			Expect(a.Finalize()).To(Succeed())

			ch, ok := a.Channel(valueKey)
			Expect(ok).To(BeTrue())

			b := frame.NewBuilder(ch, levels)
			f, ok := b.Next()
			Expect(ok).To(BeTrue())
			Expect(f.Version).To(Equal(uint64(10)))
			Expect(f.Time).To(BeNumerically("~", 0.9, 1e-9))
			Expect(f.Levels).To(HaveLen(len(levels)))
			Expect(f.Segments()).To(BeNumerically(">", 0))

			_, ok = b.Next()
			Expect(ok).To(BeFalse())
		})

		It("leaves levels above the peak empty", func() {
			a := newAdapter("pulse")
			Expect(a.Run(context.Background())).To(Succeed())

			ch, _ := a.Channel(valueKey)
			f := frame.NewBuilder(ch, levels).Build()

			peak := f.Stats.Max
			for _, l := range f.Levels {
				if l.Value > peak {
					Expect(l.Segments).To(BeEmpty())
				}
			}
		})
	})

	Context("with a live producer", func() {
		It("only ever observes whole, monotonically versioned frames", func() {
			params.Duration = 0
			a := newAdapter("saddle")

			ctx, cancel := context.WithCancel(context.Background())
			a.Start(ctx)

			ch, _ := a.Channel(valueKey)
			b := frame.NewBuilder(ch, []float64{0})

			var last uint64
			Eventually(func() uint64 {
				if f, ok := b.Next(); ok {
					Expect(f.Version).To(BeNumerically(">=", last))
					Expect(f.Grid.Len()).To(Equal(params.Width * params.Height))
					last = f.Version
				}
				return last
			}).WithTimeout(5 * time.Second).Should(BeNumerically(">=", 20))

			cancel()
			Expect(a.Wait()).To(Succeed())

			final := ch.Version()
			Consistently(ch.Version).WithTimeout(50 * time.Millisecond).Should(Equal(final))
		})

		It("rejects a degenerate grid before anything starts", func() {
			params.Duration = 0
			params.Width = 1
			_, err := solver.NewRegistry().NewParticipant("plume", params)
			Expect(err).To(MatchError(solver.ErrGridTooSmall))
		})
	})
})
