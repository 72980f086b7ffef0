package config

import (
	"fmt"
	"math"
)

const (
	DefaultTurns          = 12
	DefaultRadius         = 1.0
	DefaultHeight         = 2.0
	DefaultConsciousness  = 0.5
	DefaultFieldResonance = 0.5
)

// CoilConfig describes the helix a coil derives its nodes from.
type CoilConfig struct {
	// Turns is the node count; it never changes after construction.
	Turns int `json:"turns,omitempty" yaml:"turns,omitempty"`

	Radius float64 `json:"radius,omitempty" yaml:"radius,omitempty"`
	Height float64 `json:"height,omitempty" yaml:"height,omitempty"`

	// Phase offsets the helix angle, in radians.
	Phase float64 `json:"phase,omitempty" yaml:"phase,omitempty"`

	ConsciousnessNil  *float64 `json:"consciousness,omitempty" yaml:"consciousness,omitempty"`
	FieldResonanceNil *float64 `json:"field_resonance,omitempty" yaml:"field_resonance,omitempty"`
}

// DefaultCoilConfig returns a 12 turn helix of radius 1 and height 2 with
// consciousness and field resonance at 0.5.
func DefaultCoilConfig() CoilConfig {
	return CoilConfig{
		Turns:  DefaultTurns,
		Radius: DefaultRadius,
		Height: DefaultHeight,
	}
}

// Scalar returns a pointer to v, for filling the Nil fields.
func Scalar(v float64) *float64 {
	return &v
}

// Consciousness returns the configured consciousness or DefaultConsciousness.
func (c *CoilConfig) Consciousness() float64 {
	if c.ConsciousnessNil == nil {
		return DefaultConsciousness
	}
	return *c.ConsciousnessNil
}

// FieldResonance returns the configured field resonance or DefaultFieldResonance.
func (c *CoilConfig) FieldResonance() float64 {
	if c.FieldResonanceNil == nil {
		return DefaultFieldResonance
	}
	return *c.FieldResonanceNil
}

// Merge overlays the non-zero fields of source onto c.
func (c *CoilConfig) Merge(source *CoilConfig) {
	if source.Turns > 0 {
		c.Turns = source.Turns
	}
	if source.Radius > 0 {
		c.Radius = source.Radius
	}
	if source.Height > 0 {
		c.Height = source.Height
	}
	if source.Phase != 0 {
		c.Phase = source.Phase
	}
	if source.ConsciousnessNil != nil {
		c.ConsciousnessNil = Scalar(*source.ConsciousnessNil)
	}
	if source.FieldResonanceNil != nil {
		c.FieldResonanceNil = Scalar(*source.FieldResonanceNil)
	}
}

// Validate rejects configurations a coil cannot be built from. Out of range
// scalars are rejected here; only the coil's update operations clamp.
func (c *CoilConfig) Validate() error {
	if c.Turns <= 0 {
		return fmt.Errorf("%w: turns must be positive, got %d", ErrInvalidConfig, c.Turns)
	}
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) {
		return fmt.Errorf("%w: radius must be a positive finite number, got %v", ErrInvalidConfig, c.Radius)
	}
	if !(c.Height > 0) || math.IsInf(c.Height, 0) {
		return fmt.Errorf("%w: height must be a positive finite number, got %v", ErrInvalidConfig, c.Height)
	}
	if math.IsNaN(c.Phase) || math.IsInf(c.Phase, 0) {
		return fmt.Errorf("%w: phase must be finite, got %v", ErrInvalidConfig, c.Phase)
	}
	if v := c.Consciousness(); !unit(v) {
		return fmt.Errorf("%w: consciousness must be in [0,1], got %v", ErrInvalidConfig, v)
	}
	if v := c.FieldResonance(); !unit(v) {
		return fmt.Errorf("%w: field resonance must be in [0,1], got %v", ErrInvalidConfig, v)
	}
	return nil
}

// Resolve fills the zero fields of c from DefaultCoilConfig and validates
// the result. Negative turns and negative or non-finite radius or height are
// rejected instead of being replaced by defaults.
func (c *CoilConfig) Resolve() (CoilConfig, error) {
	if c.Turns < 0 {
		return CoilConfig{}, fmt.Errorf("%w: turns must not be negative, got %d", ErrInvalidConfig, c.Turns)
	}
	if !nonNegative(c.Radius) {
		return CoilConfig{}, fmt.Errorf("%w: radius must be a finite non-negative number, got %v", ErrInvalidConfig, c.Radius)
	}
	if !nonNegative(c.Height) {
		return CoilConfig{}, fmt.Errorf("%w: height must be a finite non-negative number, got %v", ErrInvalidConfig, c.Height)
	}

	cfg := DefaultCoilConfig()
	cfg.Merge(c)
	if err := cfg.Validate(); err != nil {
		return CoilConfig{}, err
	}
	return cfg, nil
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
