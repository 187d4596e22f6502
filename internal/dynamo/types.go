package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// State is a phase-space point: position and velocity on the plane.
type State struct {
	Pos r2.Vec
	Vel r2.Vec
}

func (s State) IsValid() bool {
	for _, v := range [4]float64{s.Pos.X, s.Pos.Y, s.Vel.X, s.Vel.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm is the Euclidean norm over all four phase-space components.
func (s State) Norm() float64 {
	return math.Sqrt(r2.Norm2(s.Pos) + r2.Norm2(s.Vel))
}

func (s State) Add(other State) State {
	return State{Pos: r2.Add(s.Pos, other.Pos), Vel: r2.Add(s.Vel, other.Vel)}
}

func (s State) Sub(other State) State {
	return State{Pos: r2.Sub(s.Pos, other.Pos), Vel: r2.Sub(s.Vel, other.Vel)}
}

func (s State) Scale(factor float64) State {
	return State{Pos: r2.Scale(factor, s.Pos), Vel: r2.Scale(factor, s.Vel)}
}

// Speed returns |Vel|.
func (s State) Speed() float64 {
	return r2.Norm(s.Vel)
}

func (s State) String() string {
	return fmt.Sprintf("pos=(%.4f, %.4f) vel=(%.4f, %.4f)", s.Pos.X, s.Pos.Y, s.Vel.X, s.Vel.Y)
}

// System is a first-order ODE over the phase space: dS/dt = f(S).
// Derive returns {Pos: dpos/dt, Vel: dvel/dt}.
type System interface {
	Derive(s State) (State, error)
}

type Integrator interface {
	Step(dyn System, s State, dt float64) (State, error)
}

type Metric interface {
	Name() string
	Observe(s State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, s State, t float64)
}
