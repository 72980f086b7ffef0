package config

// EntityConfig holds composition-time settings for an entity.
type EntityConfig struct {
	// ID is the entity identifier; empty means generate one.
	ID string `json:"id,omitempty" yaml:"id,omitempty"`

	// Observer names the diagnostics observer ("noop", "slog", or any
	// name registered with observability.RegisterObserver).
	Observer string `json:"observer,omitempty" yaml:"observer,omitempty"`
}

// DefaultEntityConfig returns a config with a generated ID and the slog
// observer.
func DefaultEntityConfig() EntityConfig {
	return EntityConfig{
		Observer: "slog",
	}
}

// Merge overlays the non-empty fields of source onto c.
func (c *EntityConfig) Merge(source *EntityConfig) {
	if source.ID != "" {
		c.ID = source.ID
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}
