package config

import "fmt"

const (
	defaultAddr     = "127.0.0.1:8099"
	defaultMaxTurns = 1000
)

// ServiceConfig configures the derivation service.
type ServiceConfig struct {
	Addr     string `json:"addr,omitempty" yaml:"addr,omitempty"`
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`

	// MaxTurns caps the node count a single request may ask for.
	MaxTurns int `json:"max_turns,omitempty" yaml:"max_turns,omitempty"`
}

// DefaultServiceConfig listens on 127.0.0.1:8099 and caps requests at 1000
// turns.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Addr:     defaultAddr,
		Observer: "slog",
		MaxTurns: defaultMaxTurns,
	}
}

// Merge overlays the non-zero fields of source onto c.
func (c *ServiceConfig) Merge(source *ServiceConfig) {
	if source.Addr != "" {
		c.Addr = source.Addr
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
	if source.MaxTurns > 0 {
		c.MaxTurns = source.MaxTurns
	}
}

// Validate requires an address and a positive turn cap.
func (c *ServiceConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: service address is required", ErrInvalidConfig)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("%w: max turns must be positive, got %d", ErrInvalidConfig, c.MaxTurns)
	}
	return nil
}
