package metrics

import (
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/surface"
)

// Clearance is the closest the path came to any mass. It stays +Inf on a
// field without masses.
type Clearance struct {
	name  string
	field *surface.Field
	min   float64
}

func NewClearance(field *surface.Field) *Clearance {
	return &Clearance{name: "clearance", field: field, min: math.Inf(1)}
}

func (c *Clearance) Name() string { return c.name }

func (c *Clearance) Observe(x dynamo.State, t float64) {
	if _, d := c.field.Nearest(x.Pos); d < c.min {
		c.min = d
	}
}

func (c *Clearance) Value() float64 { return c.min }

func (c *Clearance) Reset() { c.min = math.Inf(1) }

// Standard returns the metrics the CLI attaches to every run.
func Standard(field *surface.Field) []dynamo.Metric {
	return []dynamo.Metric{NewPathLength(), NewClearance(field), NewPeakSpeed()}
}
