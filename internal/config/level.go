package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
	"gopkg.in/yaml.v3"
)

type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

// Level is the geometry of one puzzle: where the wells are, where the
// particle starts and where it has to go.
type Level struct {
	Masses     []surface.Mass `yaml:"masses" json:"masses"`
	Start      Point          `yaml:"start" json:"start"`
	Goal       Point          `yaml:"goal" json:"goal"`
	GoalRadius float64        `yaml:"goal_radius" json:"goal_radius"`
	Bounds     sim.Bounds     `yaml:"bounds" json:"bounds"`
}

// DefaultLevel is a corridor between two wells with the goal straight
// ahead of the start.
func DefaultLevel() *Level {
	return &Level{
		Masses: []surface.Mass{
			{X: 0, Y: 1.5, Strength: 1.5},
			{X: 0, Y: -1.5, Strength: 1.5},
		},
		Start:      Point{X: -3.5, Y: 0},
		Goal:       Point{X: 3.5, Y: 0},
		GoalRadius: sim.DefaultGoalRadius,
		Bounds:     sim.DefaultBounds(),
	}
}

func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseLevel(data)
}

func ParseLevel(data []byte) (*Level, error) {
	lvl := DefaultLevel()
	lvl.Masses = nil
	if err := yaml.Unmarshal(data, lvl); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}
	if err := lvl.Validate(); err != nil {
		return nil, err
	}
	return lvl, nil
}

func SaveLevel(path string, lvl *Level) error {
	data, err := yaml.Marshal(lvl)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (l *Level) Validate() error {
	for i, m := range l.Masses {
		if !finite(m.X, m.Y, m.Strength) {
			return fmt.Errorf("mass %d not finite: %w", i, dynamo.ErrInvalidConfiguration)
		}
	}
	if !finite(l.Start.X, l.Start.Y, l.Goal.X, l.Goal.Y) {
		return fmt.Errorf("start and goal must be finite: %w", dynamo.ErrInvalidConfiguration)
	}
	if !(l.GoalRadius >= 0) {
		return fmt.Errorf("goal_radius must be non-negative, got %g: %w", l.GoalRadius, dynamo.ErrInvalidConfiguration)
	}
	if err := l.Bounds.Validate(); err != nil {
		return err
	}
	if !l.Bounds.Contains(l.Start.Vec()) {
		return fmt.Errorf("start %+v outside bounds: %w", l.Start, dynamo.ErrInvalidConfiguration)
	}
	return nil
}

func (l *Level) Field() *surface.Field {
	return surface.NewField(l.Masses...)
}

// Options overlays the level's bounds, goal and goal radius on base.
func (l *Level) Options(base sim.Options) sim.Options {
	base.Bounds = l.Bounds
	base.GoalRadius = l.GoalRadius
	return base.WithGoal(l.Goal.Vec())
}
