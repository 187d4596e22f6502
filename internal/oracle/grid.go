package oracle

import (
	"fmt"
	"math"

	"github.com/san-kum/geodesim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r2"
)

// Grid is the launch search space: every angle in [0, AngleMaxDeg] at
// AngleStepDeg, crossed with every power in [PowerMin, PowerMax] at
// PowerStep.
type Grid struct {
	AngleStepDeg float64 `yaml:"angle_step_deg" mapstructure:"angle_step_deg"`
	AngleMaxDeg  float64 `yaml:"angle_max_deg" mapstructure:"angle_max_deg"`
	PowerMin     float64 `yaml:"power_min" mapstructure:"power_min"`
	PowerMax     float64 `yaml:"power_max" mapstructure:"power_max"`
	PowerStep    float64 `yaml:"power_step" mapstructure:"power_step"`
}

func DefaultGrid() Grid {
	return Grid{
		AngleStepDeg: 15,
		AngleMaxDeg:  345,
		PowerMin:     1.0,
		PowerMax:     5.0,
		PowerStep:    0.5,
	}
}

type Launch struct {
	AngleDeg float64 `json:"angle_deg"`
	Power    float64 `json:"power"`
	Vel      r2.Vec  `json:"-"`
}

// NewLaunch converts an angle in degrees and a power into a velocity.
func NewLaunch(angleDeg, power float64) Launch {
	rad := angleDeg * math.Pi / 180
	return Launch{
		AngleDeg: angleDeg,
		Power:    power,
		Vel:      r2.Vec{X: math.Cos(rad) * power, Y: math.Sin(rad) * power},
	}
}

func (l Launch) String() string {
	return fmt.Sprintf("%.0f° × %.1f", l.AngleDeg, l.Power)
}

func (g Grid) Validate() error {
	if !(g.AngleStepDeg > 0) || math.IsInf(g.AngleStepDeg, 0) {
		return fmt.Errorf("angle_step_deg must be positive, got %g: %w", g.AngleStepDeg, dynamo.ErrInvalidConfiguration)
	}
	if !(g.AngleMaxDeg >= 0) || g.AngleMaxDeg >= 360 {
		return fmt.Errorf("angle_max_deg must be in [0, 360), got %g: %w", g.AngleMaxDeg, dynamo.ErrInvalidConfiguration)
	}
	if !(g.PowerStep > 0) || math.IsInf(g.PowerStep, 0) {
		return fmt.Errorf("power_step must be positive, got %g: %w", g.PowerStep, dynamo.ErrInvalidConfiguration)
	}
	if !(g.PowerMin >= 0) || !(g.PowerMax >= g.PowerMin) || math.IsInf(g.PowerMax, 0) {
		return fmt.Errorf("power range [%g, %g] invalid: %w", g.PowerMin, g.PowerMax, dynamo.ErrInvalidConfiguration)
	}
	return nil
}

// steps counts grid points in [0, span] at step, tolerating float error at
// the upper end.
func steps(span, step float64) int {
	return int(math.Floor(span/step+1e-9)) + 1
}

func (g Grid) Size() int {
	return steps(g.AngleMaxDeg, g.AngleStepDeg) * steps(g.PowerMax-g.PowerMin, g.PowerStep)
}

// Launches enumerates the grid angle-major: all powers for 0°, then all
// powers for the next angle.
func (g Grid) Launches() []Launch {
	na := steps(g.AngleMaxDeg, g.AngleStepDeg)
	np := steps(g.PowerMax-g.PowerMin, g.PowerStep)

	out := make([]Launch, 0, na*np)
	for i := 0; i < na; i++ {
		angle := float64(i) * g.AngleStepDeg
		for j := 0; j < np; j++ {
			out = append(out, NewLaunch(angle, g.PowerMin+float64(j)*g.PowerStep))
		}
	}
	return out
}
