// Package palette derives node colours from vortex numbers.
//
// Every integer reduces to a digital root in 1..9. Roots in the doubling
// family {1,2,4,8,7,5} and the trinity {3,6,9} share a nine-step hue wheel
// (40° per root); trinity roots are rendered more saturated. Consciousness
// drives lightness and field resonance drives saturation. A Palette may add a
// slow time-varying hue shimmer drawn from OpenSimplex noise, so colours are
// allowed to drift with wall-clock time.
package palette

import (
	"math"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Family is the doubling cycle 1, 2, 4, 8, 16→7, 32→5 reduced by digital root.
var Family = [6]int{1, 2, 4, 8, 7, 5}

// Trinity holds the roots that never appear in the doubling cycle.
var Trinity = [3]int{3, 6, 9}

const (
	hueStep = 40.0

	// shimmerRate is how far the noise field moves per second of wall time.
	shimmerRate = 0.05

	// DefaultShimmer is the hue drift amplitude in degrees of the package palette.
	DefaultShimmer = 6.0
)

// DigitalRoot reduces n to 1..9. Zero and multiples of nine reduce to 9;
// negative numbers reduce by their magnitude.
func DigitalRoot(n int) int {
	if n < 0 {
		n = -n
	}
	if n == 0 {
		return 9
	}
	return 1 + (n-1)%9
}

// IsTrinity reports whether n reduces to 3, 6 or 9.
func IsTrinity(n int) bool {
	return DigitalRoot(n)%3 == 0
}

// IsFamily reports whether n reduces into the doubling cycle.
func IsFamily(n int) bool {
	return !IsTrinity(n)
}

// Palette turns vortex numbers and the two bounded scalars into colours.
// The zero value has no shimmer and is a pure function of its inputs.
type Palette struct {
	noise     opensimplex.Noise
	amplitude float64
}

// New returns a Palette whose hue drifts by up to amplitude degrees, driven by
// noise seeded with seed.
func New(seed int64, amplitude float64) *Palette {
	return &Palette{
		noise:     opensimplex.NewNormalized(seed),
		amplitude: math.Abs(amplitude),
	}
}

// Static is a Palette without shimmer.
var Static = &Palette{}

// Default shimmers by DefaultShimmer degrees.
var Default = New(369, DefaultShimmer)

// Derive colours a node with the Default palette.
func Derive(vortex int, consciousness, fieldResonance float64, t time.Time) string {
	return Default.Color(vortex, consciousness, fieldResonance, t)
}

// HSL returns hue in degrees [0,360) and saturation and lightness in [0,1].
func (p *Palette) HSL(vortex int, consciousness, fieldResonance float64, t time.Time) (h, s, l float64) {
	root := DigitalRoot(vortex)
	consciousness = unit(consciousness)
	fieldResonance = unit(fieldResonance)

	h = float64(root%9)*hueStep + p.shimmer(root, t)
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}

	if IsTrinity(root) {
		s = 0.6 + 0.4*fieldResonance
	} else {
		s = 0.4 + 0.6*fieldResonance
	}
	l = 0.3 + 0.4*consciousness
	return h, s, l
}

// Color returns a "#rrggbb" colour for the node.
func (p *Palette) Color(vortex int, consciousness, fieldResonance float64, t time.Time) string {
	h, s, l := p.HSL(vortex, consciousness, fieldResonance, t)
	return colorful.Hsl(h, s, l).Clamped().Hex()
}

func (p *Palette) shimmer(root int, t time.Time) float64 {
	if p == nil || p.noise == nil || p.amplitude == 0 {
		return 0
	}
	seconds := float64(t.UnixNano()) / float64(time.Second)
	// Normalized noise is in [0,1); centre it on zero.
	return (p.noise.Eval2(float64(root), seconds*shimmerRate)*2 - 1) * p.amplitude
}

// Valid reports whether s is a "#rrggbb" colour.
func Valid(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	_, err := colorful.Hex(s)
	return err == nil
}

// RGB255 splits a "#rrggbb" colour into its channels.
func RGB255(s string) (r, g, b uint8, err error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, 0, 0, err
	}
	r, g, b = c.RGB255()
	return r, g, b, nil
}

func unit(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
