package coil_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
)

func nodes(vortex ...int) []coil.Node {
	out := make([]coil.Node, len(vortex))
	for i, v := range vortex {
		out[i] = coil.Node{Index: i, VortexNumber: v}
	}
	return out
}

func TestResonance(t *testing.T) {
	tests := []struct {
		name string
		a, b []coil.Node
		want float64
	}{
		{name: "identical", a: nodes(1, 2, 4, 8, 7, 5), b: nodes(1, 2, 4, 8, 7, 5), want: 1},
		{name: "rotated by one", a: nodes(1, 2, 4, 8, 7, 5), b: nodes(2, 4, 8, 7, 5, 1), want: 0},
		{name: "half", a: nodes(1, 2, 4, 8), b: nodes(1, 2, 7, 5), want: 0.5},
		{name: "shorter prefix", a: nodes(1, 2, 4), b: nodes(1, 2, 4, 8, 7, 5), want: 1},
		{name: "empty", a: nil, b: nodes(1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := coil.Resonance(tt.a, tt.b); got != tt.want {
				t.Errorf("Resonance = %v, want %v", got, tt.want)
			}
			if got := coil.Resonance(tt.b, tt.a); got != tt.want {
				t.Errorf("Resonance reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResonance_IdenticalConfig(t *testing.T) {
	for _, turns := range []int{1, 6, 7, 12, 100} {
		a := newCoil(t, shape(turns))
		b := newCoil(t, shape(turns))

		got, err := a.ResonanceWith(b)
		if err != nil {
			t.Fatalf("ResonanceWith failed: %v", err)
		}
		if got != 1.0 {
			t.Errorf("turns %d: resonance = %v, want 1", turns, got)
		}
	}
}

func TestResonance_DifferentLengths(t *testing.T) {
	a := newCoil(t, shape(4))
	b := newCoil(t, config.CoilConfig{Turns: 9, Radius: 3, Height: 7, Phase: 1})

	ab, _ := a.ResonanceWith(b)
	ba, _ := b.ResonanceWith(a)
	if ab != 1 || ba != 1 {
		t.Errorf("prefix-aligned coils: ab=%v ba=%v, want 1", ab, ba)
	}
}

func TestResonanceWith_Nil(t *testing.T) {
	a := newCoil(t, shape(4))
	if _, err := a.ResonanceWith(nil); !errors.Is(err, coil.ErrNilCoil) {
		t.Errorf("error = %v, want ErrNilCoil", err)
	}
}

func TestCyclicResonance(t *testing.T) {
	a := nodes(1, 2, 4, 8, 7, 5)
	b := nodes(2, 4, 8, 7, 5, 1)

	if got := coil.CyclicResonance(a, b); got != 1 {
		t.Errorf("CyclicResonance of a rotation = %v, want 1", got)
	}
	if got := coil.CyclicResonance(a, nil); got != 0 {
		t.Errorf("CyclicResonance with empty = %v, want 0", got)
	}
}

func TestCyclicResonance_Symmetric(t *testing.T) {
	tests := []struct {
		name string
		a, b []coil.Node
		want float64
	}{
		{name: "shifted short tail", a: nodes(1, 2, 4, 8, 7, 5), b: nodes(2, 4, 8, 7), want: 1},
		{name: "nine against four", a: nodes(1, 2, 4, 8, 7, 5, 1, 2, 4), b: nodes(1, 2, 4, 8), want: 1},
		{name: "partial agreement", a: nodes(1, 2, 4, 8, 7), b: nodes(2, 4, 1, 1), want: 0.5},
		{name: "trinity never matches", a: nodes(3, 6, 9), b: nodes(3, 6, 9), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ab := coil.CyclicResonance(tt.a, tt.b)
			ba := coil.CyclicResonance(tt.b, tt.a)
			if ab != ba {
				t.Errorf("CyclicResonance not symmetric: ab=%v ba=%v", ab, ba)
			}
			if ab != tt.want {
				t.Errorf("CyclicResonance = %v, want %v", ab, tt.want)
			}
		})
	}
}
