package integrators

import "github.com/san-kum/geodesim/internal/dynamo"

// Euler is the explicit first-order step. Kept as a baseline for
// comparing against RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, s dynamo.State, dt float64) (dynamo.State, error) {
	d, err := dyn.Derive(s)
	if err != nil {
		return s, err
	}
	return s.Add(d.Scale(dt)), nil
}
