package integrators

import "github.com/san-kum/geodesim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta step with weights
// (1, 2, 2, 1)/6. It is stateless and safe for concurrent use.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

// Step advances s by dt. dt may be negative to integrate backward. An error
// from any of the four derivative evaluations aborts the step.
func (r *RK4) Step(dyn dynamo.System, s dynamo.State, dt float64) (dynamo.State, error) {
	k1, err := dyn.Derive(s)
	if err != nil {
		return s, err
	}
	k2, err := dyn.Derive(s.Add(k1.Scale(dt * 0.5)))
	if err != nil {
		return s, err
	}
	k3, err := dyn.Derive(s.Add(k2.Scale(dt * 0.5)))
	if err != nil {
		return s, err
	}
	k4, err := dyn.Derive(s.Add(k3.Scale(dt)))
	if err != nil {
		return s, err
	}

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return s.Add(sum.Scale(dt / 6.0)), nil
}
