// Package dynamo provides the shared primitives for trajectory simulation.
//
// The package defines the phase-space types and the interfaces every other
// package plugs into:
//
//   - [State]: position and velocity of the particle on the plane
//   - [System]: first-order ODE over the phase space (dS/dt = f(S))
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric] and [Observer]: per-step hooks used by the simulator
//
// # Errors
//
// Configuration problems are reported as [ErrInvalidConfiguration] before any
// step is taken. Numeric breakdowns (singular metric, NaN or Inf state) are
// reported as [ErrNumericDegeneracy], usually wrapped in a [SimulationError]
// that records where the run stopped. Terminal outcomes such as reaching the
// goal are results, never errors.
package dynamo
