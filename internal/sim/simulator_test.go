package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

// valley is a corridor along y=0 between two equal wells.
func valley() *surface.Field {
	return surface.NewField(
		surface.Mass{X: 0, Y: 1.5, Strength: 1.5},
		surface.Mass{X: 0, Y: -1.5, Strength: 1.5},
	)
}

func singleWell() *surface.Field {
	return surface.NewField(surface.Mass{X: 0, Y: 0, Strength: 1.5})
}

type nanIntegrator struct{}

func (nanIntegrator) Step(dyn dynamo.System, s dynamo.State, dt float64) (dynamo.State, error) {
	s.Pos.X = math.NaN()
	return s, nil
}

type stepCounter struct{ calls, lastStep int }

func (c *stepCounter) OnStep(step int, s dynamo.State, t float64) {
	c.calls++
	c.lastStep = step
}

type sampleCount struct{ n float64 }

func (m *sampleCount) Name() string                      { return "samples" }
func (m *sampleCount) Observe(s dynamo.State, t float64) { m.n++ }
func (m *sampleCount) Value() float64                    { return m.n }
func (m *sampleCount) Reset()                            { m.n = 0 }

var _ = Describe("Simulator", func() {
	var (
		ctx  context.Context
		opts sim.Options
	)

	BeforeEach(func() {
		ctx = context.Background()
		opts = sim.DefaultOptions()
	})

	Describe("terminal outcomes", func() {
		It("reaches the goal along the valley floor", func() {
			opts = opts.WithGoal(r2.Vec{X: 3.5, Y: 0})

			res, err := sim.New(valley()).Run(ctx, r2.Vec{X: -3.5}, r2.Vec{X: 2}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Success))
			Expect(res.ReachedGoal()).To(BeTrue())
			Expect(res.OutOfBounds()).To(BeFalse())
			Expect(r2.Norm(r2.Sub(res.FinalPos, r2.Vec{X: 3.5}))).To(BeNumerically("<", opts.GoalRadius))
			Expect(res.Points).To(HaveLen(res.Steps + 1))
		})

		It("captures a straight shot through a single well before the goal", func() {
			opts = opts.WithGoal(r2.Vec{X: 3.5, Y: 0})

			res, err := sim.ComputeTrajectory(singleWell(), r2.Vec{X: -3.5}, r2.Vec{X: 2}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Captured))
			Expect(res.ReachedGoal()).To(BeFalse())
			Expect(r2.Norm(res.FinalPos)).To(BeNumerically("<", opts.CaptureRadius))
		})

		It("captures a particle released at rest", func() {
			res, err := sim.ComputeTrajectory(singleWell(), r2.Vec{X: 3}, r2.Vec{}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Captured))
			Expect(len(res.Points)).To(BeNumerically("<=", opts.MaxSteps+1))

			last := res.Points[len(res.Points)-1]
			Expect(last.Vec()).To(Equal(res.FinalPos))
			Expect(math.Hypot(last.X, last.Y)).To(BeNumerically("<", opts.CaptureRadius))
		})

		It("reports Exhausted when the step budget runs out", func() {
			opts.MaxSteps = 10

			res, err := sim.ComputeTrajectory(singleWell(), r2.Vec{X: 3}, r2.Vec{}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Exhausted))
			Expect(res.Steps).To(Equal(10))
			Expect(res.Points).To(HaveLen(opts.MaxSteps + 1))
		})

		It("leaves the bounds on an empty field", func() {
			res, err := sim.ComputeTrajectory(surface.NewField(), r2.Vec{}, r2.Vec{X: 1}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.OutOfBounds))
			Expect(res.OutOfBounds()).To(BeTrue())
			Expect(res.FinalPos.X).To(BeNumerically(">", opts.Bounds.MaxX))
		})
	})

	Describe("priority order", func() {
		It("checks the goal before the bounds", func() {
			outside := r2.Vec{X: 6, Y: 0}
			opts = opts.WithGoal(outside)

			res, err := sim.ComputeTrajectory(singleWell(), outside, r2.Vec{}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Success))
			Expect(res.Steps).To(Equal(0))
			Expect(res.Points).To(HaveLen(1))
		})

		It("stops out of bounds before stepping", func() {
			res, err := sim.ComputeTrajectory(singleWell(), r2.Vec{X: 6}, r2.Vec{}, opts)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.OutOfBounds))
			Expect(res.Points).To(HaveLen(1))
			Expect(res.FinalPos).To(Equal(r2.Vec{X: 6}))
		})

		It("treats the edge as inside", func() {
			res, err := sim.ComputeTrajectory(surface.NewField(), r2.Vec{X: 5}, r2.Vec{}, opts.WithGoal(r2.Vec{X: -4}))
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Outcome).To(Equal(sim.Exhausted))
		})
	})

	It("is deterministic", func() {
		opts = opts.WithGoal(r2.Vec{X: 3.5})
		a, err := sim.ComputeTrajectory(valley(), r2.Vec{X: -3.5}, r2.Vec{X: 1.5, Y: 0.4}, opts)
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.ComputeTrajectory(valley(), r2.Vec{X: -3.5}, r2.Vec{X: 1.5, Y: 0.4}, opts)
		Expect(err).NotTo(HaveOccurred())

		Expect(b.Points).To(Equal(a.Points))
		Expect(b.Outcome).To(Equal(a.Outcome))
	})

	It("records points whose Z is the surface height", func() {
		field := singleWell()
		res, err := sim.ComputeTrajectory(field, r2.Vec{X: 3}, r2.Vec{}, opts)
		Expect(err).NotTo(HaveOccurred())
		for _, p := range res.Points {
			Expect(p.Z).To(Equal(field.Height(p.X, p.Y)))
		}
	})

	It("feeds metrics and observers once per recorded point", func() {
		counter := &stepCounter{}
		metric := &sampleCount{}
		s := sim.New(singleWell())
		s.AddObserver(counter)
		s.AddMetric(metric)

		res, err := s.Run(ctx, r2.Vec{X: 3}, r2.Vec{}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(counter.calls).To(Equal(len(res.Points)))
		Expect(counter.lastStep).To(Equal(res.Steps))
		Expect(res.Metrics).To(HaveKeyWithValue("samples", float64(len(res.Points))))

		By("resetting metrics between runs")
		res2, err := s.Run(ctx, r2.Vec{X: 3}, r2.Vec{}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res2.Metrics["samples"]).To(Equal(res.Metrics["samples"]))
	})

	DescribeTable("rejects invalid options",
		func(mutate func(*sim.Options)) {
			mutate(&opts)
			res, err := sim.ComputeTrajectory(singleWell(), r2.Vec{}, r2.Vec{}, opts)
			Expect(err).To(MatchError(dynamo.ErrInvalidConfiguration))
			Expect(res).To(BeNil())
		},
		Entry("zero max steps", func(o *sim.Options) { o.MaxSteps = 0 }),
		Entry("zero dt", func(o *sim.Options) { o.Dt = 0 }),
		Entry("negative dt", func(o *sim.Options) { o.Dt = -0.01 }),
		Entry("NaN dt", func(o *sim.Options) { o.Dt = math.NaN() }),
		Entry("inverted x bounds", func(o *sim.Options) { o.Bounds.MinX, o.Bounds.MaxX = 5, -5 }),
		Entry("empty y bounds", func(o *sim.Options) { o.Bounds.MaxY = o.Bounds.MinY }),
		Entry("infinite bounds", func(o *sim.Options) { o.Bounds.MaxX = math.Inf(1) }),
		Entry("negative goal radius", func(o *sim.Options) { o.GoalRadius = -1 }),
		Entry("negative capture radius", func(o *sim.Options) { o.CaptureRadius = -0.1 }),
	)

	It("returns the partial result when the context is canceled", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := sim.New(singleWell()).Run(cctx, r2.Vec{X: 3}, r2.Vec{}, opts)
		Expect(err).To(MatchError(dynamo.ErrContextCanceled))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res).NotTo(BeNil())
		Expect(res.Points).To(BeEmpty())
		Expect(res.Outcome).To(Equal(sim.Unknown))
	})

	It("surfaces a non-finite step as numeric degeneracy", func() {
		s := sim.New(singleWell(), sim.WithIntegrator(nanIntegrator{}))

		res, err := s.Run(ctx, r2.Vec{X: 3}, r2.Vec{X: 1}, opts)
		Expect(err).To(MatchError(dynamo.ErrNumericDegeneracy))

		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(0))
		Expect(res.Points).To(HaveLen(1))
	})

	It("applies geodesic tuning", func() {
		// Without gravity a particle at rest never moves.
		s := sim.New(singleWell(), sim.WithGeodesic(0, 1e-3))
		opts.MaxSteps = 50

		res, err := s.Run(ctx, r2.Vec{X: 3}, r2.Vec{}, opts)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Outcome).To(Equal(sim.Exhausted))
		Expect(res.FinalPos).To(Equal(r2.Vec{X: 3}))
	})
})

var _ = Describe("Outcome", func() {
	It("round-trips through its text form", func() {
		for _, o := range sim.Outcomes() {
			text, err := o.MarshalText()
			Expect(err).NotTo(HaveOccurred())

			var back sim.Outcome
			Expect(back.UnmarshalText(text)).To(Succeed())
			Expect(back).To(Equal(o))
		}
		Expect(sim.OutOfBounds.String()).To(Equal("out_of_bounds"))
	})

	It("rejects unknown names", func() {
		_, err := sim.ParseOutcome("teleported")
		Expect(err).To(HaveOccurred())
	})
})
