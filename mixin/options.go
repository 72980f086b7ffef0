package mixin

import (
	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/observability"
)

type options struct {
	id       string
	handler  Handler
	observer observability.Observer
	state    map[string]any
	entity   *config.EntityConfig
	coil     *config.CoilConfig
	coilOpts []coil.Option
}

// Option configures Compose and ComposeCoil.
type Option func(*options)

// WithID sets the entity identifier instead of generating one.
func WithID(id string) Option {
	return func(o *options) { o.id = id }
}

// WithHandler sets the entity's Observe behaviour.
func WithHandler(h Handler) Option {
	return func(o *options) { o.handler = h }
}

// WithObserver sets the diagnostics observer, overriding WithConfig.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithState seeds the entity state. The map is copied.
func WithState(state map[string]any) Option {
	return func(o *options) { o.state = state }
}

// WithConfig applies an EntityConfig. Its observer name is resolved through
// the observability registry.
func WithConfig(cfg config.EntityConfig) Option {
	return func(o *options) { o.entity = &cfg }
}

// WithCoilConfig sets the coil configuration for ComposeCoil. Zero fields
// take their defaults.
func WithCoilConfig(cfg config.CoilConfig) Option {
	return func(o *options) { o.coil = &cfg }
}

// WithCoilOptions passes options through to coil.New.
func WithCoilOptions(opts ...coil.Option) Option {
	return func(o *options) { o.coilOpts = append(o.coilOpts, opts...) }
}
