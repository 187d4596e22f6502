package export

import (
	"github.com/san-kum/geodesim/internal/sim"
	"github.com/san-kum/geodesim/internal/storage"
	"github.com/san-kum/geodesim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

// Scene is everything drawn for one trajectory, in world coordinates.
type Scene struct {
	Points     []sim.Point
	Masses     []surface.Mass
	Goal       *r2.Vec
	GoalRadius float64
	Bounds     sim.Bounds
	Outcome    sim.Outcome
	Metrics    map[string]float64
}

func NewScene(field *surface.Field, result *sim.Result, opts sim.Options) Scene {
	return Scene{
		Points:     result.Points,
		Masses:     field.Masses(),
		Goal:       opts.Goal,
		GoalRadius: opts.GoalRadius,
		Bounds:     opts.Bounds,
		Outcome:    result.Outcome,
		Metrics:    result.Metrics,
	}
}

func SceneFromRun(meta *storage.RunMetadata, points []sim.Point) Scene {
	s := Scene{
		Points:     points,
		Masses:     meta.Masses,
		GoalRadius: meta.GoalRadius,
		Bounds:     meta.Bounds,
		Outcome:    meta.Outcome,
		Metrics:    meta.Metrics,
	}
	if meta.Goal != nil {
		s.Goal = &r2.Vec{X: meta.Goal.X, Y: meta.Goal.Y}
	}
	return s
}

// Project maps world coordinates into a width×height pixel box with y up.
func (s Scene) Project(p r2.Vec, width, height float64) (float64, float64) {
	b := s.Bounds
	x := (p.X - b.MinX) / (b.MaxX - b.MinX) * width
	y := height - (p.Y-b.MinY)/(b.MaxY-b.MinY)*height
	return x, y
}
