package sim

import "gonum.org/v1/gonum/spatial/r2"

// Point is one recorded sample of the path, Z being the surface height.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (p Point) Vec() r2.Vec { return r2.Vec{X: p.X, Y: p.Y} }

type Result struct {
	Points   []Point            `json:"points"`
	Outcome  Outcome            `json:"outcome"`
	FinalPos r2.Vec             `json:"final_pos"`
	Steps    int                `json:"steps"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
}

func (r *Result) ReachedGoal() bool { return r.Outcome == Success }

func (r *Result) OutOfBounds() bool { return r.Outcome == OutOfBounds }
