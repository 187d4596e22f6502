// Package physics provides the equations of motion on the mass surface.
//
// [Geodesic] implements [dynamo.System] for the state (pos, vel):
//
//	dpos/dt = vel
//	dvel/dt = -Γ(vel, vel) - GravityScale·∇height(pos)
//
// The first term is the geodesic equation built from the Christoffel
// symbols of the surface; the second is an effective gravity that makes a
// particle at rest roll toward the nearest well. Near-stationary particles
// (|vel| < RestSpeed) skip the geodesic term.
//
// # Example
//
//	field := surface.NewField(surface.Mass{X: 0, Y: 0, Strength: 1.5})
//	dyn := physics.NewGeodesic(geometry.NewEngine(field))
//	next, err := integrators.NewRK4().Step(dyn, s, 0.01)
package physics
