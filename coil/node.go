package coil

import (
	"fmt"
	"math"

	"github.com/tailored-agentic-units/vortex/palette"
)

// Cycle is the repeating family sequence assigned to nodes by index.
var Cycle = palette.Family

// GoldenAngle is the helix step between consecutive nodes, 2π/φ² radians
// (about 137.5°).
var GoldenAngle = 2 * math.Pi / (math.Phi * math.Phi)

// Position is a point on the helix.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 {
	return math.Sqrt((p.X-q.X)*(p.X-q.X) + (p.Y-q.Y)*(p.Y-q.Y) + (p.Z-q.Z)*(p.Z-q.Z))
}

// Node is one element of a coil.
type Node struct {
	Index               int      `json:"index"`
	VortexNumber        int      `json:"vortex_number"`
	Position            Position `json:"position"`
	Color               string   `json:"color"`
	MetaphysicalContext string   `json:"metaphysical_context"`
}

// VortexAt returns the vortex number of the node at index i.
func VortexAt(i int) int {
	return Cycle[((i%len(Cycle))+len(Cycle))%len(Cycle)]
}

// PositionAt returns the helix position of node i for a coil of the given
// shape.
func PositionAt(i, turns int, radius, height, phase float64) Position {
	theta := phase + float64(i)*GoldenAngle
	return Position{
		X: radius * math.Cos(theta),
		Y: radius * math.Sin(theta),
		Z: float64(i) * height / float64(turns),
	}
}

var bands = []struct {
	upper float64
	name  string
}{
	{0.2, "dormant"},
	{0.4, "stirring"},
	{0.6, "aware"},
	{0.8, "illuminated"},
	{math.Inf(1), "transcendent"},
}

var roles = map[int]string{
	1: "unity seeds the cycle",
	2: "duality divides",
	4: "form takes structure",
	8: "power expands",
	7: "insight turns inward",
	5: "change returns to the source",
}

// Band names the consciousness band v falls into.
func Band(v float64) string {
	for _, b := range bands {
		if v < b.upper {
			return b.name
		}
	}
	return bands[len(bands)-1].name
}

// Context describes a node for display.
func Context(vortex int, consciousness float64) string {
	role, ok := roles[vortex]
	if !ok {
		role = "the trinity holds the axis"
	}
	return fmt.Sprintf("%s %d: %s (consciousness %.2f)", Band(consciousness), vortex, role, consciousness)
}
