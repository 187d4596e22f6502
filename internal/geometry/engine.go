package geometry

import (
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/surface"
)

const (
	DefaultGradientEps    = 0.01
	DefaultChristoffelEps = 0.02
	DefaultCurvatureEps   = 0.05
	DefaultMinDeterminant = 1e-12
)

// Epsilons are the finite-difference steps. Each operation uses its own
// step and scheme; changing any of them changes observable trajectories.
type Epsilons struct {
	Gradient    float64 `yaml:"gradient_eps" mapstructure:"gradient_eps"`
	Christoffel float64 `yaml:"christoffel_eps" mapstructure:"christoffel_eps"`
	Curvature   float64 `yaml:"curvature_eps" mapstructure:"curvature_eps"`
}

func DefaultEpsilons() Epsilons {
	return Epsilons{
		Gradient:    DefaultGradientEps,
		Christoffel: DefaultChristoffelEps,
		Curvature:   DefaultCurvatureEps,
	}
}

func (e Epsilons) Validate() error {
	for name, v := range map[string]float64{
		"gradient_eps":    e.Gradient,
		"christoffel_eps": e.Christoffel,
		"curvature_eps":   e.Curvature,
	} {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be positive, got %g: %w", name, v, dynamo.ErrInvalidConfiguration)
		}
	}
	return nil
}

// Engine differentiates a height function numerically. It holds no mutable
// state; every method is a pure function of the potential and the point.
type Engine struct {
	pot    surface.Potential
	eps    Epsilons
	minDet float64
}

type Option func(*Engine)

func WithEpsilons(eps Epsilons) Option {
	return func(e *Engine) { e.eps = eps }
}

// WithMinDeterminant sets the floor below which the metric is treated as
// singular.
func WithMinDeterminant(d float64) Option {
	return func(e *Engine) { e.minDet = d }
}

func NewEngine(pot surface.Potential, opts ...Option) *Engine {
	e := &Engine{
		pot:    pot,
		eps:    DefaultEpsilons(),
		minDet: DefaultMinDeterminant,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Epsilons() Epsilons { return e.eps }

func (e *Engine) Height(x, y float64) float64 { return e.pot.Height(x, y) }

// Gradient is a one-sided forward difference. The asymmetry is intentional:
// trajectories are tuned against it, so it is not replaced with a centered
// difference.
func (e *Engine) Gradient(x, y float64) (dzdx, dzdy float64) {
	h := e.eps.Gradient
	z := e.pot.Height(x, y)
	dzdx = (e.pot.Height(x+h, y) - z) / h
	dzdy = (e.pot.Height(x, y+h) - z) / h
	return dzdx, dzdy
}

// Metric is the first fundamental form of the graph z = height(x, y).
func (e *Engine) Metric(x, y float64) MetricTensor {
	dzdx, dzdy := e.Gradient(x, y)
	cross := dzdx * dzdy
	return MetricTensor{
		G11: 1 + dzdx*dzdx,
		G12: cross,
		G21: cross,
		G22: 1 + dzdy*dzdy,
	}
}

// Christoffel computes Γ^i_jk = ½ g^il (∂_k g_lj + ∂_j g_lk − ∂_l g_jk),
// summing over both values of l. Metric derivatives are centered differences
// over a 5-point stencil.
func (e *Engine) Christoffel(x, y float64) (Christoffel, error) {
	gamma, err := e.connection(x, y)
	if err != nil {
		return Christoffel{}, err
	}

	c := Christoffel{
		G111: gamma[0][0][0],
		G112: gamma[0][0][1],
		G122: gamma[0][1][1],
		G211: gamma[1][0][0],
		G212: gamma[1][0][1],
		G222: gamma[1][1][1],
	}
	for _, v := range [6]float64{c.G111, c.G112, c.G122, c.G211, c.G212, c.G222} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Christoffel{}, fmt.Errorf("christoffel at (%g, %g) not finite: %w", x, y, dynamo.ErrNumericDegeneracy)
		}
	}
	return c, nil
}

// connection returns the full gamma[i][j][k] array, 0-based.
func (e *Engine) connection(x, y float64) ([2][2][2]float64, error) {
	var gamma [2][2][2]float64
	h := e.eps.Christoffel

	inv, err := e.Metric(x, y).Inverse(e.minDet)
	if err != nil {
		return gamma, fmt.Errorf("christoffel at (%g, %g): %w", x, y, err)
	}

	xp, xm := e.Metric(x+h, y).Matrix(), e.Metric(x-h, y).Matrix()
	yp, ym := e.Metric(x, y+h).Matrix(), e.Metric(x, y-h).Matrix()

	// dg[k][i][j] = ∂_k g_ij
	var dg [2][2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			dg[0][i][j] = (xp[i][j] - xm[i][j]) / (2 * h)
			dg[1][i][j] = (yp[i][j] - ym[i][j]) / (2 * h)
		}
	}

	gi := inv.Matrix()
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			for k := 0; k < 2; k++ {
				sum := 0.0
				for l := 0; l < 2; l++ {
					sum += gi[i][l] * (dg[k][l][j] + dg[j][l][k] - dg[l][j][k])
				}
				gamma[i][j][k] = 0.5 * sum
			}
		}
	}
	return gamma, nil
}

// GaussianCurvature returns K = (fxx·fyy − fxy²) / (1 + |∇f|²)² for the
// Monge patch. Only used for inspection; the integrator never reads it.
func (e *Engine) GaussianCurvature(x, y float64) float64 {
	h := e.eps.Curvature
	h2 := h * h
	f := e.pot.Height

	f0 := f(x, y)
	fxx := (f(x+h, y) - 2*f0 + f(x-h, y)) / h2
	fyy := (f(x, y+h) - 2*f0 + f(x, y-h)) / h2
	fxy := (f(x+h, y+h) - f(x+h, y-h) - f(x-h, y+h) + f(x-h, y-h)) / (4 * h2)

	dzdx, dzdy := e.Gradient(x, y)
	w := 1 + dzdx*dzdx + dzdy*dzdy
	return (fxx*fyy - fxy*fxy) / (w * w)
}

// Sample bundles every quantity the engine can report at one point.
type Sample struct {
	X, Y        float64
	Height      float64
	DzDx, DzDy  float64
	Metric      MetricTensor
	Inverse     MetricTensor
	Christoffel Christoffel
	Curvature   float64
}

func (e *Engine) Probe(x, y float64) (Sample, error) {
	s := Sample{X: x, Y: y, Height: e.pot.Height(x, y)}
	s.DzDx, s.DzDy = e.Gradient(x, y)
	s.Metric = e.Metric(x, y)
	s.Curvature = e.GaussianCurvature(x, y)

	inv, err := s.Metric.Inverse(e.minDet)
	if err != nil {
		return s, err
	}
	s.Inverse = inv

	c, err := e.Christoffel(x, y)
	if err != nil {
		return s, err
	}
	s.Christoffel = c
	return s, nil
}
