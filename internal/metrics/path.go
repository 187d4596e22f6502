package metrics

import (
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// PathLength sums the planar distance between consecutive observed
// positions.
type PathLength struct {
	name   string
	last   r2.Vec
	seen   bool
	length float64
}

func NewPathLength() *PathLength {
	return &PathLength{name: "path_length"}
}

func (p *PathLength) Name() string { return p.name }

func (p *PathLength) Observe(x dynamo.State, t float64) {
	if p.seen {
		p.length += r2.Norm(r2.Sub(x.Pos, p.last))
	}
	p.last = x.Pos
	p.seen = true
}

func (p *PathLength) Value() float64 { return p.length }

func (p *PathLength) Reset() {
	p.last = r2.Vec{}
	p.seen = false
	p.length = 0
}

type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(x dynamo.State, t float64) {
	p.peak = math.Max(p.peak, x.Speed())
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }
