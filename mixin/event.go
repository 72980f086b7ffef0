package mixin

import (
	"sync"

	"github.com/tailored-agentic-units/vortex/observability"
)

// EventType tags an Event. Handlers must ignore types they do not know.
type EventType string

const (
	CoilInteraction           EventType = "coil_interaction"
	CoilConsciousnessChanged  EventType = "coil_consciousness_changed"
	CoilFieldResonanceChanged EventType = "coil_field_resonance_changed"
)

// Diagnostics emitted to the entity's observability.Observer.
const (
	EventCompose       observability.EventType = "entity.compose"
	EventSubscribe     observability.EventType = "entity.subscribe"
	EventUnsubscribe   observability.EventType = "entity.unsubscribe"
	EventNotify        observability.EventType = "entity.notify"
	EventDeliveryError observability.EventType = "entity.deliver.error"
	EventInteraction   observability.EventType = "coil.interaction"
)

// Event is what Notify hands to each subscriber. Only Type is required; the
// remaining fields are free for producers and consumers to agree on.
type Event struct {
	Type     EventType
	SourceID string
	TargetID string
	ObjectID string

	// Source is the sending entity when the receiver needs more than its ID,
	// as coil interactions do.
	Source any

	Data map[string]any

	pass *pass
}

// Guard returns ev bound to a fresh propagation pass. Observers listed in
// visited count as already reached.
func Guard(ev Event, visited ...Observer) Event {
	p := &pass{seen: make(map[Observer]struct{}, len(visited))}
	for _, o := range visited {
		if o != nil {
			p.seen[o] = struct{}{}
		}
	}
	ev.pass = p
	return ev
}

// Guarded reports whether ev belongs to a propagation pass.
func (ev Event) Guarded() bool {
	return ev.pass != nil
}

// Reached returns how many observers the event's pass has admitted, including
// those pre-marked by Guard. It is 0 for unguarded events.
func (ev Event) Reached() int {
	if ev.pass == nil {
		return 0
	}
	ev.pass.mu.Lock()
	defer ev.pass.mu.Unlock()
	return len(ev.pass.seen)
}

type pass struct {
	mu   sync.Mutex
	seen map[Observer]struct{}
}

// admit records o and reports whether it had not been reached yet. A nil pass
// admits everything.
func (p *pass) admit(o Observer) bool {
	if p == nil {
		return true
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[o]; ok {
		return false
	}
	p.seen[o] = struct{}{}
	return true
}
