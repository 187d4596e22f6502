package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/surface"
)

// paraboloid is z = a/2 (x² + y²). Every finite difference the engine takes
// of it is exact up to rounding, which makes closed-form checks possible.
type paraboloid struct{ a float64 }

func (p paraboloid) Height(x, y float64) float64 { return 0.5 * p.a * (x*x + y*y) }

type nanPotential struct{}

func (nanPotential) Height(x, y float64) float64 { return math.NaN() }

func sampleField() *surface.Field {
	return surface.NewField(
		surface.Mass{X: 0, Y: 0, Strength: 1.5},
		surface.Mass{X: 2.5, Y: -1, Strength: 0.8},
	)
}

var samplePoints = [][2]float64{
	{-3.5, 0}, {-1.2, 0.7}, {0.9, -0.4}, {1.7, 2.2}, {3.1, -2.8}, {0.05, 0.05},
}

func TestGradient_ForwardDifference(t *testing.T) {
	p := paraboloid{a: 0.8}
	e := NewEngine(p)
	h := e.Epsilons().Gradient

	for _, pt := range samplePoints {
		dzdx, dzdy := e.Gradient(pt[0], pt[1])
		// A forward difference of a quadratic is biased by exactly a·h/2.
		wantX := p.a * (pt[0] + h/2)
		wantY := p.a * (pt[1] + h/2)
		if math.Abs(dzdx-wantX) > 1e-10 || math.Abs(dzdy-wantY) > 1e-10 {
			t.Errorf("Gradient(%v) = (%v, %v), want (%v, %v)", pt, dzdx, dzdy, wantX, wantY)
		}
	}

	// The one-sided scheme is not symmetric around an extremum.
	dzdx, _ := e.Gradient(0, 0)
	if dzdx == 0 {
		t.Error("forward difference at the vertex should carry the a·h/2 bias")
	}
}

func TestMetric_Symmetric(t *testing.T) {
	e := NewEngine(sampleField())

	for _, pt := range samplePoints {
		g := e.Metric(pt[0], pt[1])
		if g.G12 != g.G21 {
			t.Errorf("metric at %v not symmetric: g12=%v g21=%v", pt, g.G12, g.G21)
		}
		if g.G11 < 1 || g.G22 < 1 {
			t.Errorf("metric diagonal below 1 at %v: %+v", pt, g)
		}
		if g.Det() < 1 {
			t.Errorf("induced metric det must be >= 1, got %v at %v", g.Det(), pt)
		}
	}
}

func TestMetricTensor_Inverse(t *testing.T) {
	g := MetricTensor{G11: 2, G12: 0.5, G21: 0.5, G22: 1.5}
	inv, err := g.Inverse(DefaultMinDeterminant)
	if err != nil {
		t.Fatalf("Inverse failed: %v", err)
	}

	a, b := g.Matrix(), inv.Matrix()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			sum := 0.0
			for k := 0; k < 2; k++ {
				sum += a[i][k] * b[k][j]
			}
			want := 0.0
			if i == j {
				want = 1
			}
			if math.Abs(sum-want) > 1e-12 {
				t.Errorf("(g·g⁻¹)[%d][%d] = %v, want %v", i, j, sum, want)
			}
		}
	}
}

func TestMetricTensor_InverseDegenerate(t *testing.T) {
	tests := []struct {
		name string
		g    MetricTensor
	}{
		{"singular", MetricTensor{G11: 1, G12: 1, G21: 1, G22: 1}},
		{"nan", MetricTensor{G11: math.NaN(), G22: 1}},
		{"inf", MetricTensor{G11: math.Inf(1), G22: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.g.Inverse(DefaultMinDeterminant)
			if !errors.Is(err, dynamo.ErrNumericDegeneracy) {
				t.Errorf("expected ErrNumericDegeneracy, got %v", err)
			}
		})
	}
}

func TestChristoffel_FlatField(t *testing.T) {
	e := NewEngine(surface.NewField())

	c, err := e.Christoffel(1.3, -0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if (c != Christoffel{}) {
		t.Errorf("flat surface should have zero connection, got %+v", c)
	}
	if k := e.GaussianCurvature(1.3, -0.7); k != 0 {
		t.Errorf("flat surface curvature = %v, want 0", k)
	}
}

func TestChristoffel_Paraboloid(t *testing.T) {
	p := paraboloid{a: 0.6}
	e := NewEngine(p)
	h := e.Epsilons().Gradient

	for _, pt := range samplePoints {
		c, err := e.Christoffel(pt[0], pt[1])
		if err != nil {
			t.Fatalf("Christoffel(%v): %v", pt, err)
		}

		// The forward gradient makes the sampled metric that of the exact
		// paraboloid shifted by (h/2, h/2); for a graph Γ^i_jk = f_i f_jk / W.
		x, y := pt[0]+h/2, pt[1]+h/2
		a2 := p.a * p.a
		w := 1 + a2*(x*x+y*y)
		want := Christoffel{
			G111: a2 * x / w,
			G122: a2 * x / w,
			G211: a2 * y / w,
			G222: a2 * y / w,
		}

		got := [6]float64{c.G111, c.G112, c.G122, c.G211, c.G212, c.G222}
		exp := [6]float64{want.G111, want.G112, want.G122, want.G211, want.G212, want.G222}
		for i := range got {
			if math.Abs(got[i]-exp[i]) > 1e-9 {
				t.Errorf("at %v component %d: got %.12f, want %.12f", pt, i, got[i], exp[i])
			}
		}
	}
}

func TestChristoffel_LowerSymmetry(t *testing.T) {
	e := NewEngine(sampleField())

	for _, pt := range samplePoints {
		gamma, err := e.connection(pt[0], pt[1])
		if err != nil {
			t.Fatalf("connection(%v): %v", pt, err)
		}
		for i := 0; i < 2; i++ {
			if gamma[i][0][1] != gamma[i][1][0] {
				t.Errorf("Γ^%d_12 = %v != Γ^%d_21 = %v at %v", i+1, gamma[i][0][1], i+1, gamma[i][1][0], pt)
			}
		}

		c, _ := e.Christoffel(pt[0], pt[1])
		for i := 1; i <= 2; i++ {
			if c.At(i, 1, 2) != c.At(i, 2, 1) {
				t.Errorf("At(%d,1,2) != At(%d,2,1)", i, i)
			}
		}
	}
}

func TestChristoffel_FullContraction(t *testing.T) {
	// Off a symmetry axis g12 != 0, so a diagonal-only contraction would
	// differ from the full one.
	e := NewEngine(sampleField())
	x, y := 1.1, 0.9

	g := e.Metric(x, y)
	if math.Abs(g.G12) < 1e-3 {
		t.Fatalf("test point must have off-diagonal metric, g12=%v", g.G12)
	}

	c, err := e.Christoffel(x, y)
	if err != nil {
		t.Fatal(err)
	}

	h := e.Epsilons().Christoffel
	xp, xm := e.Metric(x+h, y), e.Metric(x-h, y)
	yp := e.Metric(x, y+h)
	ym := e.Metric(x, y-h)
	dxg11 := (xp.G11 - xm.G11) / (2 * h)
	dxg12 := (xp.G12 - xm.G12) / (2 * h)
	dyg11 := (yp.G11 - ym.G11) / (2 * h)
	inv, _ := g.Inverse(DefaultMinDeterminant)

	want := 0.5 * (inv.G11*dxg11 + inv.G12*(2*dxg12-dyg11))
	if math.Abs(c.G111-want) > 1e-12 {
		t.Errorf("G111 = %v, want %v", c.G111, want)
	}
	diagOnly := 0.5 * inv.G11 * dxg11
	if math.Abs(c.G111-diagOnly) < 1e-9 {
		t.Error("G111 matches the diagonal-only shortcut; the g^12 term is missing")
	}
}

func TestChristoffel_Degenerate(t *testing.T) {
	e := NewEngine(nanPotential{})

	_, err := e.Christoffel(0, 0)
	if !errors.Is(err, dynamo.ErrNumericDegeneracy) {
		t.Errorf("expected ErrNumericDegeneracy, got %v", err)
	}
}

func TestGaussianCurvature_Paraboloid(t *testing.T) {
	p := paraboloid{a: 0.5}
	e := NewEngine(p)

	for _, pt := range samplePoints {
		dzdx, dzdy := e.Gradient(pt[0], pt[1])
		w := 1 + dzdx*dzdx + dzdy*dzdy
		want := p.a * p.a / (w * w)

		if got := e.GaussianCurvature(pt[0], pt[1]); math.Abs(got-want) > 1e-9 {
			t.Errorf("K(%v) = %v, want %v", pt, got, want)
		}
	}
}

func TestGaussianCurvature_WellFlankIsSaddle(t *testing.T) {
	e := NewEngine(surface.NewField(surface.Mass{X: 0, Y: 0, Strength: 1}))

	if k := e.GaussianCurvature(2, 0); k >= 0 {
		t.Errorf("expected negative curvature on the flank of a 1/r well, got %v", k)
	}
}

func TestEpsilons(t *testing.T) {
	eps := DefaultEpsilons()
	if eps.Gradient != 0.01 || eps.Christoffel != 0.02 || eps.Curvature != 0.05 {
		t.Errorf("unexpected defaults %+v", eps)
	}
	if err := eps.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	eps.Christoffel = 0
	if err := eps.Validate(); !errors.Is(err, dynamo.ErrInvalidConfiguration) {
		t.Errorf("expected ErrInvalidConfiguration, got %v", err)
	}

	custom := Epsilons{Gradient: 0.001, Christoffel: 0.004, Curvature: 0.01}
	if got := NewEngine(sampleField(), WithEpsilons(custom)).Epsilons(); got != custom {
		t.Errorf("WithEpsilons not applied: %+v", got)
	}
}

func TestProbe(t *testing.T) {
	e := NewEngine(sampleField())

	s, err := e.Probe(-1.2, 0.7)
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if s.Height >= 0 {
		t.Errorf("height near wells should be negative, got %v", s.Height)
	}
	if s.Metric != e.Metric(-1.2, 0.7) {
		t.Error("Probe metric mismatch")
	}
	if s.Inverse.G11 <= 0 {
		t.Errorf("inverse metric not populated: %+v", s.Inverse)
	}
}
