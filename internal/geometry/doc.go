// Package geometry approximates the differential geometry of the surface
// z = height(x, y) with finite differences.
//
// The [Engine] reports the gradient, the induced metric and its inverse,
// the Christoffel symbols and the Gaussian curvature at any point. Finite
// differences keep the engine independent of the potential: any
// [surface.Potential] can be plugged in without symbolic derivatives.
//
// # Steps and schemes
//
// Each quantity uses its own step, see [Epsilons]:
//
//   - gradient: forward difference, step 0.01
//   - Christoffel symbols: centered difference of the metric, step 0.02
//   - curvature: second-order differences of the height, step 0.05
//
// # Stability
//
// The closed-form metric inverse is guarded by a determinant floor. Points
// where the inverse is singular or any coefficient is not finite return
// [dynamo.ErrNumericDegeneracy] instead of propagating NaN.
package geometry
