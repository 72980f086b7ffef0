package coil

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/observability"
	"github.com/tailored-agentic-units/vortex/palette"
)

// Coil diagnostics events.
const (
	EventCreate observability.EventType = "coil.create"
	EventUpdate observability.EventType = "coil.update"
)

// Coil owns a fixed-length node sequence and the two scalars its colours are
// derived from. It is safe for concurrent use. Each update is applied under
// one lock; AdjustFieldResonance reads and writes under the same lock, so
// concurrent adjustments all land.
type Coil struct {
	mu             sync.RWMutex
	cfg            config.CoilConfig
	consciousness  float64
	fieldResonance float64
	nodes          []Node

	palette  *palette.Palette
	clock    func() time.Time
	observer observability.Observer
}

// Option customises a Coil at construction.
type Option func(*Coil)

// WithClock sets the time source used for colour shimmer.
func WithClock(clock func() time.Time) Option {
	return func(c *Coil) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithPalette replaces the package palette. palette.Static makes colours a
// pure function of the configuration.
func WithPalette(p *palette.Palette) Option {
	return func(c *Coil) {
		if p != nil {
			c.palette = p
		}
	}
}

// WithObserver attaches a diagnostics observer.
func WithObserver(obs observability.Observer) Option {
	return func(c *Coil) {
		if obs != nil {
			c.observer = obs
		}
	}
}

// New validates cfg and derives the coil's nodes. Invalid configurations are
// rejected with an error wrapping config.ErrInvalidConfig.
func New(cfg config.CoilConfig, opts ...Option) (*Coil, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Coil{
		cfg:            cfg,
		consciousness:  cfg.Consciousness(),
		fieldResonance: cfg.FieldResonance(),
		nodes:          make([]Node, cfg.Turns),
		palette:        palette.Default,
		clock:          time.Now,
		observer:       observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}

	for i := range c.nodes {
		c.nodes[i] = Node{
			Index:        i,
			VortexNumber: VortexAt(i),
			Position:     PositionAt(i, cfg.Turns, cfg.Radius, cfg.Height, cfg.Phase),
		}
	}
	c.recolor()

	observability.Emit(context.Background(), c.observer, EventCreate, observability.LevelVerbose, "coil", map[string]any{
		"turns":           cfg.Turns,
		"consciousness":   c.consciousness,
		"field_resonance": c.fieldResonance,
	})
	return c, nil
}

// recolor regenerates colour and context of every node. Callers hold mu.
func (c *Coil) recolor() {
	now := c.clock()
	for i := range c.nodes {
		n := &c.nodes[i]
		n.Color = c.palette.Color(n.VortexNumber, c.consciousness, c.fieldResonance, now)
		n.MetaphysicalContext = Context(n.VortexNumber, c.consciousness)
	}
}

// Clamp bounds v into [0,1]. NaN clamps to 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// UpdateConsciousness clamps v, stores it and recolours every node. It
// returns the stored value.
func (c *Coil) UpdateConsciousness(v float64) float64 {
	return c.update("consciousness", &c.consciousness, v)
}

// UpdateFieldResonance clamps v, stores it and recolours every node. It
// returns the stored value.
func (c *Coil) UpdateFieldResonance(v float64) float64 {
	return c.update("field_resonance", &c.fieldResonance, v)
}

// AdjustFieldResonance adds delta to the field resonance, clamps the sum and
// recolours every node, all under one lock. It returns the values before and
// after.
func (c *Coil) AdjustFieldResonance(delta float64) (previous, stored float64) {
	return c.apply("field_resonance", &c.fieldResonance, func(current float64) float64 {
		return current + delta
	})
}

func (c *Coil) update(name string, field *float64, v float64) float64 {
	_, stored := c.apply(name, field, func(float64) float64 { return v })
	return stored
}

func (c *Coil) apply(name string, field *float64, next func(current float64) float64) (previous, stored float64) {
	c.mu.Lock()
	previous = *field
	*field = Clamp(next(previous))
	stored = *field
	c.recolor()
	c.mu.Unlock()

	observability.Emit(context.Background(), c.observer, EventUpdate, observability.LevelVerbose, "coil", map[string]any{
		"parameter": name,
		"previous":  previous,
		"value":     stored,
	})
	return previous, stored
}

// Consciousness returns the current consciousness.
func (c *Coil) Consciousness() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.consciousness
}

// FieldResonance returns the current field resonance.
func (c *Coil) FieldResonance() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fieldResonance
}

// Config returns the configuration the coil was built from, with the
// scalars replaced by their current values.
func (c *Coil) Config() config.CoilConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cfg := c.cfg
	cfg.ConsciousnessNil = config.Scalar(c.consciousness)
	cfg.FieldResonanceNil = config.Scalar(c.fieldResonance)
	return cfg
}

// Len returns the node count, which always equals the configured turns.
func (c *Coil) Len() int {
	return len(c.nodes)
}

// Nodes returns a copy of the node sequence.
func (c *Coil) Nodes() []Node {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Positions returns node positions, index-aligned with Nodes.
func (c *Coil) Positions() []Position {
	return project(c, func(n Node) Position { return n.Position })
}

// Colors returns node colours, index-aligned with Nodes.
func (c *Coil) Colors() []string {
	return project(c, func(n Node) string { return n.Color })
}

// Contexts returns node descriptions, index-aligned with Nodes.
func (c *Coil) Contexts() []string {
	return project(c, func(n Node) string { return n.MetaphysicalContext })
}

func project[T any](c *Coil, fn func(Node) T) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.nodes))
	for i, n := range c.nodes {
		out[i] = fn(n)
	}
	return out
}

// FieldAt returns the field strength at (x, y, z): the mean over nodes of
// 1/(1+d²), where d is the distance to the node. The result is in (0,1] and
// grows as the point nears the nodes.
func (c *Coil) FieldAt(x, y, z float64) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := Position{X: x, Y: y, Z: z}
	sum := 0.0
	for _, n := range c.nodes {
		d := p.Distance(n.Position)
		sum += 1 / (1 + d*d)
	}
	return sum / float64(len(c.nodes))
}

// ResonanceWith returns Resonance between c and other.
func (c *Coil) ResonanceWith(other *Coil) (float64, error) {
	if other == nil {
		return 0, ErrNilCoil
	}
	return Resonance(c.Nodes(), other.Nodes()), nil
}
