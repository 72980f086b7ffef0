// Package coil derives an ordered sequence of nodes from a small helix
// configuration and answers resonance queries over node sequences.
//
// # Derivation
//
// Node i of a coil with n turns carries:
//
//	VortexNumber = [1 2 4 8 7 5][i mod 6]
//	θ            = phase + i·GoldenAngle
//	Position     = (r·cos θ, r·sin θ, i·height/n)
//	Color        = palette colour of (VortexNumber, consciousness, field resonance, clock())
//
// Positions and vortex numbers are fixed at construction. Updating
// consciousness or field resonance recomputes every node's colour and context
// together; the node count never changes.
//
// # Resonance
//
// Resonance compares two sequences index by index:
//
//	Resonance(a, b) = |{i < min(len a, len b) : a[i].VortexNumber == b[i].VortexNumber}| / min(len a, len b)
//
// Two coils built from the same configuration score 1. A coil whose cycle is
// shifted by one position can score 0 even though the cycle is the same;
// CyclicResonance is the rotation-invariant alternative.
package coil
