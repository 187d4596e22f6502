package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultMaxSteps      = 2000
	DefaultDt            = 0.01
	DefaultGoalRadius    = 0.5
	DefaultCaptureRadius = 0.3
)

// Bounds is the playable rectangle. Points on an edge are inside.
type Bounds struct {
	MinX float64 `yaml:"min_x" json:"min_x" mapstructure:"min_x"`
	MaxX float64 `yaml:"max_x" json:"max_x" mapstructure:"max_x"`
	MinY float64 `yaml:"min_y" json:"min_y" mapstructure:"min_y"`
	MaxY float64 `yaml:"max_y" json:"max_y" mapstructure:"max_y"`
}

func DefaultBounds() Bounds {
	return Bounds{MinX: -5, MaxX: 5, MinY: -5, MaxY: 5}
}

func (b Bounds) Contains(p r2.Vec) bool {
	return !(p.X < b.MinX || p.X > b.MaxX || p.Y < b.MinY || p.Y > b.MaxY)
}

func (b Bounds) Validate() error {
	for _, v := range [4]float64{b.MinX, b.MaxX, b.MinY, b.MaxY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bounds must be finite, got %+v: %w", b, dynamo.ErrInvalidConfiguration)
		}
	}
	if b.MinX >= b.MaxX || b.MinY >= b.MaxY {
		return fmt.Errorf("bounds are empty, got %+v: %w", b, dynamo.ErrInvalidConfiguration)
	}
	return nil
}

// Options controls a single trajectory run. Goal is optional; without one
// a run can only end OutOfBounds, Captured or Exhausted.
type Options struct {
	MaxSteps      int
	Dt            float64
	Bounds        Bounds
	Goal          *r2.Vec
	GoalRadius    float64
	CaptureRadius float64
}

func DefaultOptions() Options {
	return Options{
		MaxSteps:      DefaultMaxSteps,
		Dt:            DefaultDt,
		Bounds:        DefaultBounds(),
		GoalRadius:    DefaultGoalRadius,
		CaptureRadius: DefaultCaptureRadius,
	}
}

// WithGoal returns a copy of o aiming at goal.
func (o Options) WithGoal(goal r2.Vec) Options {
	o.Goal = &goal
	return o
}

func (o Options) Validate() error {
	if o.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be positive, got %d: %w", o.MaxSteps, dynamo.ErrInvalidConfiguration)
	}
	if !(o.Dt > 0) || math.IsInf(o.Dt, 0) {
		return fmt.Errorf("dt must be positive and finite, got %g: %w", o.Dt, dynamo.ErrInvalidConfiguration)
	}
	if err := o.Bounds.Validate(); err != nil {
		return err
	}
	if !(o.GoalRadius >= 0) {
		return fmt.Errorf("goal_radius must be non-negative, got %g: %w", o.GoalRadius, dynamo.ErrInvalidConfiguration)
	}
	if !(o.CaptureRadius >= 0) {
		return fmt.Errorf("capture_radius must be non-negative, got %g: %w", o.CaptureRadius, dynamo.ErrInvalidConfiguration)
	}
	if o.Goal != nil && (math.IsNaN(o.Goal.X) || math.IsNaN(o.Goal.Y)) {
		return fmt.Errorf("goal is NaN: %w", dynamo.ErrInvalidConfiguration)
	}
	return nil
}
