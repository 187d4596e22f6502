package surface

import (
	"math"
	"sync/atomic"

	"gonum.org/v1/gonum/spatial/r2"
)

// WellOffset keeps the height finite at a mass's center while still
// producing a deep well.
const WellOffset = 0.5

// Potential is any scalar height function over the plane.
type Potential interface {
	Height(x, y float64) float64
}

// Mass is a point well on the plane.
type Mass struct {
	X        float64 `yaml:"x" json:"x"`
	Y        float64 `yaml:"y" json:"y"`
	Strength float64 `yaml:"strength" json:"strength"`
}

func (m Mass) Pos() r2.Vec { return r2.Vec{X: m.X, Y: m.Y} }

// Field is an immutable ordered set of masses. Order only matters for
// indexing; Height is a commutative sum.
type Field struct {
	masses []Mass
}

func NewField(masses ...Mass) *Field {
	c := make([]Mass, len(masses))
	copy(c, masses)
	return &Field{masses: c}
}

func (f *Field) Len() int { return len(f.masses) }

// Masses returns a copy of the configured masses.
func (f *Field) Masses() []Mass {
	c := make([]Mass, len(f.masses))
	copy(c, f.masses)
	return c
}

// Height returns sum(-strength / (distance + WellOffset)).
func (f *Field) Height(x, y float64) float64 {
	h := 0.0
	for _, m := range f.masses {
		dx, dy := x-m.X, y-m.Y
		h -= m.Strength / (math.Sqrt(dx*dx+dy*dy) + WellOffset)
	}
	return h
}

// Nearest returns the index of and distance to the closest mass, or
// (-1, +Inf) for an empty field.
func (f *Field) Nearest(p r2.Vec) (int, float64) {
	idx, best := -1, math.Inf(1)
	for i, m := range f.masses {
		if d := r2.Norm(r2.Sub(p, m.Pos())); d < best {
			idx, best = i, d
		}
	}
	return idx, best
}

// Holder is the session-owned slot for the active field. Replace swaps the
// whole collection; readers holding the old *Field keep a consistent view.
type Holder struct {
	field atomic.Pointer[Field]
}

func NewHolder(masses ...Mass) *Holder {
	h := &Holder{}
	h.Replace(masses)
	return h
}

func (h *Holder) Replace(masses []Mass) *Field {
	f := NewField(masses...)
	h.field.Store(f)
	return f
}

func (h *Holder) Field() *Field {
	if f := h.field.Load(); f != nil {
		return f
	}
	return NewField()
}
