package coil

import "errors"

// ErrNilCoil is returned when a resonance partner is missing.
var ErrNilCoil = errors.New("nil coil")
