package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
)

// MetricTensor is the symmetric 2x2 metric at a point. G21 is stored
// explicitly but always equals G12.
type MetricTensor struct {
	G11, G12, G21, G22 float64
}

func (g MetricTensor) Det() float64 {
	return g.G11*g.G22 - g.G12*g.G21
}

// Matrix returns the components as g[i][j] with 0-based indices.
func (g MetricTensor) Matrix() [2][2]float64 {
	return [2][2]float64{{g.G11, g.G12}, {g.G21, g.G22}}
}

// Inverse returns g^-1 in closed form. A determinant smaller in magnitude
// than minDet, or a non-finite one, is reported as ErrNumericDegeneracy.
func (g MetricTensor) Inverse(minDet float64) (MetricTensor, error) {
	det := g.Det()
	if math.IsNaN(det) || math.IsInf(det, 0) || math.Abs(det) < minDet {
		return MetricTensor{}, fmt.Errorf("metric determinant %g: %w", det, dynamo.ErrNumericDegeneracy)
	}
	return MetricTensor{
		G11: g.G22 / det,
		G12: -g.G12 / det,
		G21: -g.G21 / det,
		G22: g.G11 / det,
	}, nil
}

// Christoffel holds the six independent connection coefficients Γ^i_jk.
// The lower pair is symmetric, so G112 also serves as Γ^1_21.
type Christoffel struct {
	G111, G112, G122 float64
	G211, G212, G222 float64
}

// At returns Γ^i_jk for 1-based indices i, j, k in {1, 2}.
func (c Christoffel) At(i, j, k int) float64 {
	if j > k {
		j, k = k, j
	}
	switch {
	case i == 1 && j == 1 && k == 1:
		return c.G111
	case i == 1 && j == 1 && k == 2:
		return c.G112
	case i == 1 && j == 2 && k == 2:
		return c.G122
	case i == 2 && j == 1 && k == 1:
		return c.G211
	case i == 2 && j == 1 && k == 2:
		return c.G212
	case i == 2 && j == 2 && k == 2:
		return c.G222
	}
	panic(fmt.Sprintf("geometry: christoffel index out of range (%d,%d,%d)", i, j, k))
}

// Contract returns Γ^i(v, v) for both i: the quadratic form the geodesic
// equation subtracts from the acceleration.
func (c Christoffel) Contract(vx, vy float64) (float64, float64) {
	gx := c.G111*vx*vx + 2*c.G112*vx*vy + c.G122*vy*vy
	gy := c.G211*vx*vx + 2*c.G212*vx*vy + c.G222*vy*vy
	return gx, gy
}
