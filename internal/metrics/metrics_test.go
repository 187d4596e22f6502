package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/geodesim/internal/dynamo"
	"github.com/san-kum/geodesim/internal/surface"
	"gonum.org/v1/gonum/spatial/r2"
)

func at(x, y, vx, vy float64) dynamo.State {
	return dynamo.State{Pos: r2.Vec{X: x, Y: y}, Vel: r2.Vec{X: vx, Y: vy}}
}

func TestPathLength(t *testing.T) {
	m := NewPathLength()
	for i, s := range []dynamo.State{at(0, 0, 0, 0), at(3, 4, 0, 0), at(3, 0, 0, 0)} {
		m.Observe(s, float64(i))
	}

	if got := m.Value(); math.Abs(got-9) > 1e-12 {
		t.Errorf("path length = %v, want 9", got)
	}

	m.Reset()
	m.Observe(at(10, 10, 0, 0), 0)
	if m.Value() != 0 {
		t.Errorf("single point after reset should have zero length, got %v", m.Value())
	}
}

func TestPeakSpeed(t *testing.T) {
	m := NewPeakSpeed()
	m.Observe(at(0, 0, 1, 0), 0)
	m.Observe(at(0, 0, 3, 4), 1)
	m.Observe(at(0, 0, 0, 2), 2)

	if m.Value() != 5 {
		t.Errorf("peak speed = %v, want 5", m.Value())
	}
	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear peak")
	}
}

func TestClearance(t *testing.T) {
	tests := []struct {
		name   string
		masses []surface.Mass
		path   []dynamo.State
		want   float64
	}{
		{
			name:   "single mass",
			masses: []surface.Mass{{X: 0, Y: 0, Strength: 1}},
			path:   []dynamo.State{at(3, 0, 0, 0), at(1, 0, 0, 0), at(2, 0, 0, 0)},
			want:   1,
		},
		{
			name:   "nearest of two",
			masses: []surface.Mass{{X: 0, Y: 0, Strength: 1}, {X: 5, Y: 0, Strength: 1}},
			path:   []dynamo.State{at(4.5, 0, 0, 0)},
			want:   0.5,
		},
		{
			name: "empty field",
			path: []dynamo.State{at(0, 0, 0, 0)},
			want: math.Inf(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewClearance(surface.NewField(tt.masses...))
			for i, s := range tt.path {
				m.Observe(s, float64(i))
			}
			if got := m.Value(); got != tt.want && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("clearance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStandardNames(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Standard(surface.NewField()) {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	for _, name := range []string{"path_length", "clearance", "peak_speed"} {
		if !seen[name] {
			t.Errorf("missing metric %q", name)
		}
	}
}
