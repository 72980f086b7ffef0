// Package network keeps an explicit adjacency structure over composed
// entities: an arena of subjects addressed by NodeID and, for each subject, the
// ordered list of subjects that observe it.
//
// Links made through a Network are mirrored onto the subjects' own subscriber
// sets, so Notify on a subject and Broadcast on the network deliver to the same
// observers. Cycles are allowed. HasCycle and FindCycle report them, and
// Broadcast with the Guarded policy delivers each event at most once per
// subject however the handlers relay it.
package network

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/tailored-agentic-units/vortex/mixin"
	"github.com/tailored-agentic-units/vortex/observability"
)

// Network diagnostics events.
const (
	EventAdd       observability.EventType = "network.add"
	EventLink      observability.EventType = "network.link"
	EventUnlink    observability.EventType = "network.unlink"
	EventBroadcast observability.EventType = "network.broadcast"
)

// NodeID addresses a subject in the arena.
type NodeID int

// Policy selects how Broadcast treats cycles.
type Policy int

const (
	// Permissive delivers exactly as Notify does.
	Permissive Policy = iota
	// Guarded binds the event to a propagation pass that starts with the
	// broadcasting subject already visited.
	Guarded
)

func (p Policy) String() string {
	switch p {
	case Permissive:
		return "permissive"
	case Guarded:
		return "guarded"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Network is safe for concurrent use. Delivery happens outside its lock.
type Network struct {
	mu       sync.RWMutex
	subjects []mixin.Subject
	index    map[mixin.Subject]NodeID
	edges    [][]NodeID
	observer observability.Observer
}

// New returns an empty network reporting to obs, or discarding diagnostics
// when obs is nil.
func New(obs observability.Observer) *Network {
	if obs == nil {
		obs = observability.NoOpObserver{}
	}
	return &Network{
		index:    make(map[mixin.Subject]NodeID),
		observer: obs,
	}
}

// Add registers s and returns its NodeID. Adding a registered subject returns
// the existing NodeID.
func (n *Network) Add(s mixin.Subject) (NodeID, error) {
	if s == nil {
		return 0, ErrNilSubject
	}

	n.mu.Lock()
	if id, ok := n.index[s]; ok {
		n.mu.Unlock()
		return id, nil
	}
	id := NodeID(len(n.subjects))
	n.subjects = append(n.subjects, s)
	n.edges = append(n.edges, nil)
	n.index[s] = id
	n.mu.Unlock()

	observability.Emit(context.Background(), n.observer, EventAdd, observability.LevelVerbose, "network", map[string]any{
		"node":    int(id),
		"subject": s.ID(),
	})
	return id, nil
}

// Len returns the number of registered subjects.
func (n *Network) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subjects)
}

// Subject returns the subject registered under id.
func (n *Network) Subject(id NodeID) (mixin.Subject, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.check(id); err != nil {
		return nil, err
	}
	return n.subjects[id], nil
}

// Lookup returns the NodeID of s.
func (n *Network) Lookup(s mixin.Subject) (NodeID, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	id, ok := n.index[s]
	return id, ok
}

func (n *Network) check(ids ...NodeID) error {
	for _, id := range ids {
		if id < 0 || int(id) >= len(n.subjects) {
			return fmt.Errorf("%w: %d", ErrUnknownNode, id)
		}
	}
	return nil
}

// Link makes to observe from. Linking twice is a no-op, and self links are
// allowed.
func (n *Network) Link(from, to NodeID) error {
	n.mu.Lock()
	if err := n.check(from, to); err != nil {
		n.mu.Unlock()
		return err
	}
	if slices.Contains(n.edges[from], to) {
		n.mu.Unlock()
		return nil
	}
	n.edges[from] = append(n.edges[from], to)
	subject, observer := n.subjects[from], n.subjects[to]
	n.mu.Unlock()

	subject.AddObserver(observer)
	observability.Emit(context.Background(), n.observer, EventLink, observability.LevelVerbose, "network", map[string]any{
		"from": subject.ID(),
		"to":   observer.ID(),
	})
	return nil
}

// Unlink removes the link from → to. Removing an absent link is a no-op.
func (n *Network) Unlink(from, to NodeID) error {
	n.mu.Lock()
	if err := n.check(from, to); err != nil {
		n.mu.Unlock()
		return err
	}
	i := slices.Index(n.edges[from], to)
	if i < 0 {
		n.mu.Unlock()
		return nil
	}
	n.edges[from] = slices.Delete(n.edges[from], i, i+1)
	subject, observer := n.subjects[from], n.subjects[to]
	n.mu.Unlock()

	subject.RemoveObserver(observer)
	observability.Emit(context.Background(), n.observer, EventUnlink, observability.LevelVerbose, "network", map[string]any{
		"from": subject.ID(),
		"to":   observer.ID(),
	})
	return nil
}

// Sync rebuilds the adjacency lists from the subjects' current subscriber
// sets, picking up subscriptions made directly with AddObserver. Observers
// that are not registered subjects are left out.
func (n *Network) Sync() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for from, s := range n.subjects {
		edges := make([]NodeID, 0)
		for _, o := range s.Observers() {
			sub, ok := o.(mixin.Subject)
			if !ok {
				continue
			}
			if to, ok := n.index[sub]; ok {
				edges = append(edges, to)
			}
		}
		n.edges[from] = edges
	}
}

// Subscribers returns the NodeIDs observing id, in link order.
func (n *Network) Subscribers(id NodeID) ([]NodeID, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if err := n.check(id); err != nil {
		return nil, err
	}
	return slices.Clone(n.edges[id]), nil
}

// Broadcast notifies the subscribers of from with ev under the given policy.
func (n *Network) Broadcast(ctx context.Context, from NodeID, ev mixin.Event, policy Policy) error {
	subject, err := n.Subject(from)
	if err != nil {
		return err
	}

	if policy == Guarded {
		ev = mixin.Guard(ev, subject)
	}

	observability.Emit(ctx, n.observer, EventBroadcast, observability.LevelVerbose, "network", map[string]any{
		"from":   subject.ID(),
		"type":   string(ev.Type),
		"policy": policy.String(),
	})
	return subject.Notify(ctx, ev)
}
