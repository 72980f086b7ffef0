package mixin

import (
	"context"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/tailored-agentic-units/vortex/observability"
)

// Observer receives events from the subjects it subscribes to. Observers are
// held by identity, so implementations must be comparable; pointer receivers
// are the norm.
type Observer interface {
	ID() string
	Observe(ctx context.Context, ev Event) error
}

// Subject is the full observation capability every composed entity carries.
type Subject interface {
	Observer

	// State returns a shallow copy of the state map.
	State() map[string]any
	// SetState shallow-merges partial into the state.
	SetState(partial map[string]any)
	// ReplaceState discards the state and installs a copy of state.
	ReplaceState(state map[string]any)

	AddObserver(o Observer)
	RemoveObserver(o Observer)
	// Observers returns the subscribers in insertion order.
	Observers() []Observer

	Notify(ctx context.Context, ev Event) error
}

// Handler implements Observe for an entity. self is the entity receiving ev.
type Handler func(ctx context.Context, self Subject, ev Event) error

// Relay forwards every observed event to the entity's own subscribers.
func Relay(ctx context.Context, self Subject, ev Event) error {
	return self.Notify(ctx, ev)
}

// Entity is a value of type T with the observation capability attached.
type Entity[T any] struct {
	id   string
	base T

	mu          sync.RWMutex
	state       map[string]any
	subscribers []Observer
	handler     Handler

	observer observability.Observer
}

var _ Subject = (*Entity[struct{}])(nil)

// Compose attaches the observation capability to base. A nil base (nil
// pointer, map, slice, func, chan or interface) is rejected with
// ErrInvalidArgument.
func Compose[T any](base T, opts ...Option) (*Entity[T], error) {
	return compose(base, collect(opts))
}

func collect(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func compose[T any](base T, o *options) (*Entity[T], error) {
	if isNil(base) {
		return nil, fmt.Errorf("%w: cannot compose a nil %T", ErrInvalidArgument, base)
	}

	id := o.id
	observer := o.observer
	if o.entity != nil {
		if id == "" {
			id = o.entity.ID
		}
		if observer == nil {
			obs, err := observability.GetObserver(o.entity.Observer)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve observer: %w", err)
			}
			observer = obs
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	e := &Entity[T]{
		id:       id,
		base:     base,
		state:    maps.Clone(o.state),
		handler:  o.handler,
		observer: observer,
	}
	if e.state == nil {
		e.state = make(map[string]any)
	}

	observability.Emit(context.Background(), observer, EventCompose, observability.LevelVerbose, "mixin", map[string]any{
		"id":   id,
		"base": fmt.Sprintf("%T", base),
	})
	return e, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ID returns the entity identifier.
func (e *Entity[T]) ID() string {
	return e.id
}

// Base returns the composed value.
func (e *Entity[T]) Base() T {
	return e.base
}

// Observe runs the entity's handler. Without a handler it does nothing.
func (e *Entity[T]) Observe(ctx context.Context, ev Event) error {
	e.mu.RLock()
	h := e.handler
	e.mu.RUnlock()

	if h == nil {
		return nil
	}
	return h(ctx, e, ev)
}

// SetHandler replaces the entity's handler.
func (e *Entity[T]) SetHandler(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handler = h
}

// State returns a shallow copy of the entity state.
func (e *Entity[T]) State() map[string]any {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return maps.Clone(e.state)
}

// SetState shallow-merges partial into the state.
func (e *Entity[T]) SetState(partial map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	maps.Copy(e.state, partial)
}

// ReplaceState discards the state and installs a copy of state.
func (e *Entity[T]) ReplaceState(state map[string]any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = maps.Clone(state)
	if e.state == nil {
		e.state = make(map[string]any)
	}
}

// AddObserver subscribes o. Adding a present or nil observer does nothing.
func (e *Entity[T]) AddObserver(o Observer) {
	if isNil(o) {
		return
	}

	e.mu.Lock()
	if slices.Contains(e.subscribers, o) {
		e.mu.Unlock()
		return
	}
	e.subscribers = append(e.subscribers, o)
	count := len(e.subscribers)
	e.mu.Unlock()

	observability.Emit(context.Background(), e.observer, EventSubscribe, observability.LevelVerbose, "mixin", map[string]any{
		"id":          e.id,
		"subscriber":  o.ID(),
		"subscribers": count,
	})
}

// RemoveObserver unsubscribes o. Removing an absent observer does nothing.
func (e *Entity[T]) RemoveObserver(o Observer) {
	if isNil(o) {
		return
	}

	e.mu.Lock()
	i := slices.Index(e.subscribers, o)
	if i < 0 {
		e.mu.Unlock()
		return
	}
	e.subscribers = slices.Delete(e.subscribers, i, i+1)
	count := len(e.subscribers)
	e.mu.Unlock()

	observability.Emit(context.Background(), e.observer, EventUnsubscribe, observability.LevelVerbose, "mixin", map[string]any{
		"id":          e.id,
		"subscriber":  o.ID(),
		"subscribers": count,
	})
}

// Observers returns a copy of the subscribers in insertion order.
func (e *Entity[T]) Observers() []Observer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.subscribers)
}

// Notify calls Observe on each subscriber present when Notify starts, in
// insertion order. Subscribers added or removed by a handler take effect
// from the next Notify. The first handler error aborts delivery and is
// returned as a *DeliveryError.
func (e *Entity[T]) Notify(ctx context.Context, ev Event) error {
	subscribers := e.Observers()

	observability.Emit(ctx, e.observer, EventNotify, observability.LevelVerbose, "mixin", map[string]any{
		"id":          e.id,
		"type":        string(ev.Type),
		"subscribers": len(subscribers),
		"guarded":     ev.Guarded(),
	})

	for _, sub := range subscribers {
		if !ev.pass.admit(sub) {
			continue
		}
		if err := sub.Observe(ctx, ev); err != nil {
			observability.Emit(ctx, e.observer, EventDeliveryError, observability.LevelError, "mixin", map[string]any{
				"id":         e.id,
				"type":       string(ev.Type),
				"subscriber": sub.ID(),
				"error":      err.Error(),
			})
			return &DeliveryError{SubscriberID: sub.ID(), EventType: ev.Type, Err: err}
		}
	}
	return nil
}
