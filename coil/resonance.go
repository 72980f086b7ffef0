package coil

// Resonance returns the fraction of indices below min(len(a), len(b)) at which
// a and b carry the same vortex number. It is 0 when either sequence is empty.
func Resonance(a, b []Node) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	count := 0
	for i := range n {
		if a[i].VortexNumber == b[i].VortexNumber {
			count++
		}
	}
	return float64(count) / float64(n)
}

// CyclicResonance is the best Resonance of a against b with b's vortex numbers
// shifted by each of the six positions of the vortex cycle. Trinity values
// never match. The result is symmetric in a and b.
func CyclicResonance(a, b []Node) float64 {
	n := min(len(a), len(b))
	if n == 0 {
		return 0
	}

	best := 0.0
	for shift := range len(Cycle) {
		count := 0
		for i := range n {
			if a[i].VortexNumber == rotate(b[i].VortexNumber, shift) {
				count++
			}
		}
		best = max(best, float64(count)/float64(n))
	}
	return best
}

// rotate advances v shift positions along Cycle. Values outside the cycle
// map to 0.
func rotate(v, shift int) int {
	for pos, c := range Cycle {
		if c == v {
			return Cycle[(pos+shift)%len(Cycle)]
		}
	}
	return 0
}
