// Package mixin turns arbitrary Go values into observable entities and,
// optionally, binds a coil to them.
//
// # Composition
//
// Compose wraps any non-nil value in an Entity that carries an identifier, a
// state map and a subscriber set. The wrapped value stays reachable through
// Base, so its fields never collide with the capability's methods.
//
//	type Sensor struct{ Name string }
//
//	e, err := mixin.Compose(&Sensor{Name: "north"}, mixin.WithID("north"))
//
// # Observation
//
// An entity observes events through its Handler (a no-op by default) and
// notifies its subscribers with Notify. Notify delivers to a snapshot of the
// subscriber set taken when it starts, in insertion order, and performs exactly
// one level of fan-out. Forwarding further is the handler's business; Relay is
// the stock forwarding handler. Subscribers may form cycles:
//
//	a.AddObserver(b)
//	b.AddObserver(c)
//	c.AddObserver(a)
//	err := a.Notify(ctx, mixin.Event{Type: "ping"}) // only b observes
//
// The first handler error stops delivery to the remaining subscribers and is
// returned as a *DeliveryError. Panics are not recovered.
//
// # Guarded Passes
//
// Relaying handlers on a cyclic graph never terminate on their own. Guard
// attaches a visited set to an event; within that pass each observer receives
// the event at most once, however many relays reach it. Unguarded events keep
// the permissive behaviour.
//
// # Coils
//
// ComposeCoil additionally binds a coil.Coil. Its updaters announce changes to
// the entity's own subscribers, and its handler answers coil_interaction
// events addressed to it by absorbing a tenth of the positional resonance
// between the two coils into its field resonance.
package mixin
