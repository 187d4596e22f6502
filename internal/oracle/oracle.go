package oracle

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/surface"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r2"
)

// Oracle decides whether a level can be won by brute force over its
// launch grid. Every trial is an independent trajectory over the same
// read-only field.
type Oracle struct {
	Grid        Grid
	Options     sim.Options
	Concurrency int
	SimOptions  []sim.SimOption
	Logger      *zap.Logger
}

func New() *Oracle {
	return &Oracle{
		Grid:    DefaultGrid(),
		Options: sim.DefaultOptions(),
	}
}

type Report struct {
	Solvable   bool                `json:"solvable"`
	Trials     int                 `json:"trials"`
	Outcomes   map[sim.Outcome]int `json:"outcomes"`
	Degenerate int                 `json:"degenerate"`
	Solutions  []Launch            `json:"solutions"`
	Elapsed    time.Duration       `json:"elapsed"`
}

// trial outcomes are stored per grid slot; degenerate marks a trial whose
// integration broke down.
const degenerate = sim.Outcome(-1)

var errSolved = errors.New("oracle: solution found")

func (o *Oracle) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o *Oracle) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

func (o *Oracle) validate() error {
	if err := o.Grid.Validate(); err != nil {
		return err
	}
	return o.Options.Validate()
}

// Solve runs every launch in the grid and reports all successful ones in
// grid order.
func (o *Oracle) Solve(ctx context.Context, field *surface.Field, start, goal r2.Vec) (*Report, error) {
	if err := o.validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	launches := o.Grid.Launches()

	slots, err := o.run(ctx, field, start, goal, launches, false)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Trials:   len(launches),
		Outcomes: make(map[sim.Outcome]int),
	}
	for i, outcome := range slots {
		switch outcome {
		case degenerate:
			report.Degenerate++
		case sim.Success:
			report.Solutions = append(report.Solutions, launches[i])
			fallthrough
		default:
			report.Outcomes[outcome]++
		}
	}
	report.Solvable = len(report.Solutions) > 0
	report.Elapsed = time.Since(started)

	o.logger().Info("level search complete",
		zap.Bool("solvable", report.Solvable),
		zap.Int("trials", report.Trials),
		zap.Int("solutions", len(report.Solutions)),
		zap.Int("degenerate", report.Degenerate),
		zap.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// FirstSolution stops the search at the first success. With more than one
// worker the returned launch is the lowest-index success among the trials
// that finished, which is not necessarily the lowest in the whole grid.
func (o *Oracle) FirstSolution(ctx context.Context, field *surface.Field, start, goal r2.Vec) (Launch, bool, error) {
	if err := o.validate(); err != nil {
		return Launch{}, false, err
	}
	launches := o.Grid.Launches()

	slots, err := o.run(ctx, field, start, goal, launches, true)
	if err != nil {
		return Launch{}, false, err
	}
	for i, outcome := range slots {
		if outcome == sim.Success {
			o.logger().Debug("first solution", zap.Stringer("launch", launches[i]), zap.Int("index", i))
			return launches[i], true, nil
		}
	}
	return Launch{}, false, nil
}

func (o *Oracle) run(ctx context.Context, field *surface.Field, start, goal r2.Vec, launches []Launch, stopEarly bool) ([]sim.Outcome, error) {
	opts := o.Options.WithGoal(goal)
	slots := make([]sim.Outcome, len(launches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency())

	for i, launch := range launches {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := sim.ComputeTrajectoryContext(gctx, field, start, launch.Vel, opts, o.SimOptions...)
			switch {
			case errors.Is(err, dynamo.ErrNumericDegeneracy):
				o.logger().Debug("degenerate trial", zap.Stringer("launch", launch), zap.Error(err))
				slots[i] = degenerate
				return nil
			case errors.Is(err, dynamo.ErrContextCanceled):
				if ctx.Err() != nil {
					return err
				}
				// Canceled by an earlier success.
				return nil
			case err != nil:
				return fmt.Errorf("trial %s: %w", launch, err)
			}

			slots[i] = res.Outcome
			if stopEarly && res.Outcome == sim.Success {
				return errSolved
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, errSolved) {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, err)
	}
	return slots, nil
}
