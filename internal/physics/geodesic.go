package physics

import (
	"fmt"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	DefaultGravityScale = 2.0
	DefaultRestSpeed    = 1e-3
)

// Geodesic moves a particle along the surface under the geodesic equation
// plus an artificial pull down the slope, so a particle released at rest
// still falls into a well.
type Geodesic struct {
	Engine       *geometry.Engine
	GravityScale float64
	RestSpeed    float64
}

func NewGeodesic(engine *geometry.Engine) *Geodesic {
	return &Geodesic{
		Engine:       engine,
		GravityScale: DefaultGravityScale,
		RestSpeed:    DefaultRestSpeed,
	}
}

// GeodesicAcceleration returns -Γ(v, v). Below RestSpeed it is zero.
func (g *Geodesic) GeodesicAcceleration(s dynamo.State) (r2.Vec, error) {
	if s.Speed() < g.RestSpeed {
		return r2.Vec{}, nil
	}
	c, err := g.Engine.Christoffel(s.Pos.X, s.Pos.Y)
	if err != nil {
		return r2.Vec{}, err
	}
	ax, ay := c.Contract(s.Vel.X, s.Vel.Y)
	return r2.Vec{X: -ax, Y: -ay}, nil
}

// Gravity returns -GravityScale * ∇height at pos.
func (g *Geodesic) Gravity(pos r2.Vec) r2.Vec {
	dzdx, dzdy := g.Engine.Gradient(pos.X, pos.Y)
	return r2.Scale(-g.GravityScale, r2.Vec{X: dzdx, Y: dzdy})
}

func (g *Geodesic) Acceleration(s dynamo.State) (r2.Vec, error) {
	geo, err := g.GeodesicAcceleration(s)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Add(geo, g.Gravity(s.Pos)), nil
}

func (g *Geodesic) Derive(s dynamo.State) (dynamo.State, error) {
	acc, err := g.Acceleration(s)
	if err != nil {
		return dynamo.State{}, err
	}
	return dynamo.State{Pos: s.Vel, Vel: acc}, nil
}

func (g *Geodesic) GetParams() map[string]float64 {
	return map[string]float64{
		"gravity_scale": g.GravityScale,
		"rest_speed":    g.RestSpeed,
	}
}

func (g *Geodesic) SetParam(name string, value float64) error {
	switch name {
	case "gravity_scale":
		g.GravityScale = value
	case "rest_speed":
		g.RestSpeed = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
