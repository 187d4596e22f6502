package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geometry"
	"github.com/san-kum/geodesim/internal/integrators"
	"github.com/san-kum/geodesim/internal/physics"
	"github.com/san-kum/geodesim/internal/surface"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/spatial/r2"
)

// Simulator runs trajectories over one immutable field. Metrics and
// observers make it stateful, so a Simulator with either attached must
// not run concurrently. ComputeTrajectory builds a fresh one per call.
type Simulator struct {
	field      *surface.Field
	engine     *geometry.Engine
	dyn        *physics.Geodesic
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	logger     *zap.Logger

	engineOpts   []geometry.Option
	gravityScale float64
	restSpeed    float64
}

type SimOption func(*Simulator)

func WithEngineOptions(opts ...geometry.Option) SimOption {
	return func(s *Simulator) { s.engineOpts = append(s.engineOpts, opts...) }
}

func WithGeodesic(gravityScale, restSpeed float64) SimOption {
	return func(s *Simulator) {
		s.gravityScale = gravityScale
		s.restSpeed = restSpeed
	}
}

func WithIntegrator(integ dynamo.Integrator) SimOption {
	return func(s *Simulator) { s.integrator = integ }
}

func WithLogger(logger *zap.Logger) SimOption {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(field *surface.Field, opts ...SimOption) *Simulator {
	if field == nil {
		field = surface.NewField()
	}
	s := &Simulator{
		field:        field,
		integrator:   integrators.NewRK4(),
		logger:       zap.NewNop(),
		gravityScale: physics.DefaultGravityScale,
		restSpeed:    physics.DefaultRestSpeed,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine = geometry.NewEngine(field, s.engineOpts...)
	s.dyn = physics.NewGeodesic(s.engine)
	s.dyn.GravityScale = s.gravityScale
	s.dyn.RestSpeed = s.restSpeed
	return s
}

func (s *Simulator) Field() *surface.Field    { return s.field }
func (s *Simulator) Engine() *geometry.Engine { return s.engine }

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Run integrates from (startPos, startVel) until a terminal event or until
// opts.MaxSteps steps have been taken. Each iteration records the current
// point, then checks the goal, then the bounds, then steps and checks for
// capture. On Captured and Exhausted the final point is recorded too.
//
// A degenerate step returns the partial result with a *dynamo.SimulationError.
// Cancellation returns the partial result with an error wrapping
// dynamo.ErrContextCanceled.
func (s *Simulator) Run(ctx context.Context, startPos, startVel r2.Vec, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Points:  make([]Point, 0, opts.MaxSteps+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	x := dynamo.State{Pos: startPos, Vel: startVel}
	if !x.IsValid() {
		return nil, fmt.Errorf("start state %s not finite: %w", x, dynamo.ErrInvalidConfiguration)
	}

	t := 0.0
	step := 0
	for ; step < opts.MaxSteps; step++ {
		select {
		case <-ctx.Done():
			s.finish(result, x, Unknown, step)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		s.record(result, step, x, t)

		if opts.Goal != nil && r2.Norm(r2.Sub(x.Pos, *opts.Goal)) < opts.GoalRadius {
			s.finish(result, x, Success, step)
			return result, nil
		}
		if !opts.Bounds.Contains(x.Pos) {
			s.finish(result, x, OutOfBounds, step)
			return result, nil
		}

		next, err := s.integrator.Step(s.dyn, x, opts.Dt)
		if err == nil && !next.IsValid() {
			err = dynamo.ErrNumericDegeneracy
		}
		if err != nil {
			s.finish(result, x, Unknown, step)
			s.logger.Debug("trajectory degenerate", zap.Int("step", step), zap.Error(err))
			return result, &dynamo.SimulationError{Step: step, Time: t, State: x, Wrapped: err}
		}
		x = next
		t += opts.Dt

		if _, d := s.field.Nearest(x.Pos); d < opts.CaptureRadius {
			s.record(result, step+1, x, t)
			s.finish(result, x, Captured, step+1)
			return result, nil
		}
	}

	s.record(result, step, x, t)
	s.finish(result, x, Exhausted, step)
	return result, nil
}

func (s *Simulator) record(result *Result, step int, x dynamo.State, t float64) {
	result.Points = append(result.Points, Point{X: x.Pos.X, Y: x.Pos.Y, Z: s.field.Height(x.Pos.X, x.Pos.Y)})
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, x, t)
	}
}

func (s *Simulator) finish(result *Result, x dynamo.State, outcome Outcome, steps int) {
	result.Outcome = outcome
	result.FinalPos = x.Pos
	result.Steps = steps
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.logger.Debug("trajectory finished",
		zap.Stringer("outcome", outcome),
		zap.Int("steps", steps),
		zap.Int("points", len(result.Points)),
		zap.Float64("final_x", x.Pos.X),
		zap.Float64("final_y", x.Pos.Y),
	)
}

// ComputeTrajectory runs one trajectory with a fresh default simulator.
func ComputeTrajectory(field *surface.Field, startPos, startVel r2.Vec, opts Options) (*Result, error) {
	return ComputeTrajectoryContext(context.Background(), field, startPos, startVel, opts)
}

func ComputeTrajectoryContext(ctx context.Context, field *surface.Field, startPos, startVel r2.Vec, opts Options, simOpts ...SimOption) (*Result, error) {
	return New(field, simOpts...).Run(ctx, startPos, startVel, opts)
}
