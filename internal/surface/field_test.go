package surface

import (
	"math"
	"sync"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestHeight_MonotoneWell(t *testing.T) {
	fields := []*Field{
		NewField(Mass{X: 0, Y: 0, Strength: 1.5}),
		NewField(Mass{X: 1, Y: -2, Strength: 0.3}),
		NewField(Mass{X: -1, Y: 0, Strength: 2}, Mass{X: 3, Y: 3, Strength: 1}),
	}

	for fi, f := range fields {
		m := f.Masses()[0]
		// Walk toward the first mass along x; height must strictly decrease.
		prev := math.Inf(1)
		for d := 0.9; d >= 0; d -= 0.05 {
			h := f.Height(m.X+d, m.Y)
			if !(h < prev) {
				t.Fatalf("field %d: height not decreasing at d=%.2f: %v >= %v", fi, d, h, prev)
			}
			prev = h
		}
	}
}

func TestHeight_FiniteAtCenter(t *testing.T) {
	f := NewField(Mass{X: 2, Y: -1, Strength: 1.5})
	h := f.Height(2, -1)

	if math.IsNaN(h) || math.IsInf(h, 0) {
		t.Fatalf("height at mass center must be finite, got %v", h)
	}
	if want := -1.5 / WellOffset; math.Abs(h-want) > 1e-12 {
		t.Errorf("Height() = %v, want %v", h, want)
	}
}

func TestHeight_EmptyField(t *testing.T) {
	f := NewField()
	if h := f.Height(1, 1); h != 0 {
		t.Errorf("empty field height = %v, want 0", h)
	}
	if idx, d := f.Nearest(r2.Vec{}); idx != -1 || !math.IsInf(d, 1) {
		t.Errorf("Nearest on empty field = (%d, %v), want (-1, +Inf)", idx, d)
	}
}

func TestHeight_OrderIndependent(t *testing.T) {
	a := Mass{X: -1, Y: 0.5, Strength: 1.2}
	b := Mass{X: 2, Y: -1, Strength: 0.7}
	f1 := NewField(a, b)
	f2 := NewField(b, a)

	for _, p := range []r2.Vec{{X: 0, Y: 0}, {X: 1.3, Y: -0.2}, {X: -4, Y: 4}} {
		if d := math.Abs(f1.Height(p.X, p.Y) - f2.Height(p.X, p.Y)); d > 1e-12 {
			t.Errorf("order changed height at %v by %g", p, d)
		}
	}
}

func TestField_Nearest(t *testing.T) {
	f := NewField(Mass{X: -2, Y: 0, Strength: 1}, Mass{X: 2, Y: 0, Strength: 1})

	idx, d := f.Nearest(r2.Vec{X: 1.5, Y: 0})
	if idx != 1 {
		t.Errorf("expected nearest index 1, got %d", idx)
	}
	if math.Abs(d-0.5) > 1e-12 {
		t.Errorf("expected distance 0.5, got %v", d)
	}
}

func TestField_MassesIsCopy(t *testing.T) {
	src := []Mass{{X: 1, Y: 1, Strength: 1}}
	f := NewField(src...)
	src[0].Strength = 99

	got := f.Masses()
	got[0].X = 42
	if f.Masses()[0].Strength != 1 || f.Masses()[0].X != 1 {
		t.Error("Field must not share storage with callers")
	}
}

func TestHolder_Replace(t *testing.T) {
	h := NewHolder(Mass{X: 0, Y: 0, Strength: 1})
	old := h.Field()

	h.Replace([]Mass{{X: 1, Y: 1, Strength: 2}, {X: -1, Y: -1, Strength: 2}})

	if old.Len() != 1 {
		t.Errorf("old field mutated: len %d", old.Len())
	}
	if h.Field().Len() != 2 {
		t.Errorf("expected 2 masses after replace, got %d", h.Field().Len())
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				h.Replace([]Mass{{X: float64(i), Strength: 1}})
				return
			}
			_ = h.Field().Height(0, 0)
		}(i)
	}
	wg.Wait()
}

func TestHolder_ZeroValue(t *testing.T) {
	var h Holder
	if h.Field() == nil || h.Field().Len() != 0 {
		t.Error("zero Holder should yield an empty field")
	}
}
