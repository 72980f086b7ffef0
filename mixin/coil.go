package mixin

import (
	"context"
	"fmt"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/observability"
)

// interactionGain is the share of resonance absorbed per interaction.
const interactionGain = 0.1

// CoilBearer is anything that can present a node sequence to resonate with.
type CoilBearer interface {
	ID() string
	CoilNodes() []coil.Node
}

// CoilEntity is an Entity with a coil bound to it.
type CoilEntity[T any] struct {
	*Entity[T]
	coil *coil.Coil
}

var _ CoilBearer = (*CoilEntity[struct{}])(nil)

// ComposeCoil composes base like Compose and binds a coil built from
// WithCoilConfig (defaults: 12 turns, radius 1, height 2, consciousness and
// field resonance 0.5). Any handler given with WithHandler runs after the
// coil's own interaction handling.
func ComposeCoil[T any](base T, opts ...Option) (*CoilEntity[T], error) {
	o := collect(opts)

	e, err := compose(base, o)
	if err != nil {
		return nil, err
	}

	source := o.coil
	if source == nil {
		source = &config.CoilConfig{}
	}
	cfg, err := source.Resolve()
	if err != nil {
		return nil, err
	}

	coilOpts := append([]coil.Option{coil.WithObserver(e.observer)}, o.coilOpts...)
	c, err := coil.New(cfg, coilOpts...)
	if err != nil {
		return nil, err
	}

	ce := &CoilEntity[T]{Entity: e, coil: c}
	ce.SetHandler(o.handler)
	return ce, nil
}

// SetHandler replaces the caller's handler. Interaction handling stays in
// front of it.
func (c *CoilEntity[T]) SetHandler(h Handler) {
	c.Entity.SetHandler(func(ctx context.Context, self Subject, ev Event) error {
		if err := c.interact(ctx, ev); err != nil {
			return err
		}
		if h != nil {
			return h(ctx, self, ev)
		}
		return nil
	})
}

// NewInteraction builds a coil_interaction event from source to targetID.
func NewInteraction(source CoilBearer, targetID string) Event {
	ev := Event{
		Type:     CoilInteraction,
		TargetID: targetID,
		Source:   source,
	}
	if !isNil(source) {
		ev.SourceID = source.ID()
	}
	return ev
}

func (c *CoilEntity[T]) interact(ctx context.Context, ev Event) error {
	if ev.Type != CoilInteraction || ev.TargetID != c.ID() {
		return nil
	}

	source, ok := ev.Source.(CoilBearer)
	if !ok || isNil(source) {
		return fmt.Errorf("%w: %s from %q carries no coil", ErrInvalidEvent, ev.Type, ev.SourceID)
	}

	resonance := coil.Resonance(c.coil.Nodes(), source.CoilNodes())
	observability.Emit(ctx, c.observer, EventInteraction, observability.LevelInfo, "mixin", map[string]any{
		"id":        c.ID(),
		"source":    source.ID(),
		"resonance": resonance,
	})

	previous, stored := c.coil.AdjustFieldResonance(resonance * interactionGain)
	return c.Notify(ctx, c.changed(CoilFieldResonanceChanged, "field_resonance", previous, stored))
}

// Coil returns the bound coil.
func (c *CoilEntity[T]) Coil() *coil.Coil {
	return c.coil
}

// CoilNodes returns a copy of the coil's nodes.
func (c *CoilEntity[T]) CoilNodes() []coil.Node {
	return c.coil.Nodes()
}

// CoilColors returns the node colours, index-aligned with CoilNodes.
func (c *CoilEntity[T]) CoilColors() []string {
	return c.coil.Colors()
}

// CoilPositions returns the node positions, index-aligned with CoilNodes.
func (c *CoilEntity[T]) CoilPositions() []coil.Position {
	return c.coil.Positions()
}

// CoilMetaphysicalContext returns each node's description, index-aligned
// with CoilNodes.
func (c *CoilEntity[T]) CoilMetaphysicalContext() []string {
	return c.coil.Contexts()
}

// UpdateCoilConsciousness stores the clamped value and notifies subscribers
// with a coil_consciousness_changed event. The stored value is returned even
// when delivery fails.
func (c *CoilEntity[T]) UpdateCoilConsciousness(ctx context.Context, v float64) (float64, error) {
	previous := c.coil.Consciousness()
	stored := c.coil.UpdateConsciousness(v)
	return stored, c.Notify(ctx, c.changed(CoilConsciousnessChanged, "consciousness", previous, stored))
}

// UpdateCoilFieldResonance stores the clamped value and notifies subscribers
// with a coil_field_resonance_changed event. The stored value is returned
// even when delivery fails.
func (c *CoilEntity[T]) UpdateCoilFieldResonance(ctx context.Context, v float64) (float64, error) {
	previous := c.coil.FieldResonance()
	stored := c.coil.UpdateFieldResonance(v)
	return stored, c.Notify(ctx, c.changed(CoilFieldResonanceChanged, "field_resonance", previous, stored))
}

func (c *CoilEntity[T]) changed(typ EventType, key string, previous, value float64) Event {
	return Event{
		Type:     typ,
		SourceID: c.ID(),
		ObjectID: c.ID(),
		Source:   c,
		Data: map[string]any{
			key:        value,
			"previous": previous,
		},
	}
}
