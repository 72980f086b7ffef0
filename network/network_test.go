package network_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/tailored-agentic-units/vortex/mixin"
	"github.com/tailored-agentic-units/vortex/network"
	"github.com/tailored-agentic-units/vortex/observability"
)

type captureObserver struct {
	events []observability.Event
}

func (c *captureObserver) OnEvent(ctx context.Context, event observability.Event) {
	c.events = append(c.events, event)
}

func entity(t *testing.T, id string, h mixin.Handler) *mixin.Entity[string] {
	t.Helper()
	e, err := mixin.Compose(id, mixin.WithID(id), mixin.WithHandler(h))
	if err != nil {
		t.Fatalf("Compose(%s) failed: %v", id, err)
	}
	return e
}

func build(t *testing.T, h mixin.Handler, ids ...string) (*network.Network, []network.NodeID) {
	t.Helper()
	n := network.New(nil)
	nodes := make([]network.NodeID, len(ids))
	for i, id := range ids {
		node, err := n.Add(entity(t, id, h))
		if err != nil {
			t.Fatalf("Add(%s) failed: %v", id, err)
		}
		nodes[i] = node
	}
	return n, nodes
}

func link(t *testing.T, n *network.Network, pairs ...[2]network.NodeID) {
	t.Helper()
	for _, p := range pairs {
		if err := n.Link(p[0], p[1]); err != nil {
			t.Fatalf("Link(%d, %d) failed: %v", p[0], p[1], err)
		}
	}
}

func TestAdd(t *testing.T) {
	n := network.New(nil)
	e := entity(t, "a", nil)

	first, err := n.Add(e)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	again, _ := n.Add(e)
	if first != again || n.Len() != 1 {
		t.Errorf("re-adding should return the same node: %d vs %d, len %d", first, again, n.Len())
	}

	if _, err := n.Add(nil); !errors.Is(err, network.ErrNilSubject) {
		t.Errorf("Add(nil) error = %v, want ErrNilSubject", err)
	}

	got, ok := n.Lookup(e)
	if !ok || got != first {
		t.Errorf("Lookup = (%d, %v), want (%d, true)", got, ok, first)
	}
	s, err := n.Subject(first)
	if err != nil || s.ID() != "a" {
		t.Errorf("Subject(%d) = (%v, %v)", first, s, err)
	}
}

func TestLink_MirrorsSubscribers(t *testing.T) {
	n, ids := build(t, nil, "a", "b", "c")
	link(t, n, [2]network.NodeID{ids[0], ids[1]}, [2]network.NodeID{ids[0], ids[2]}, [2]network.NodeID{ids[0], ids[1]})

	subs, err := n.Subscribers(ids[0])
	if err != nil {
		t.Fatalf("Subscribers failed: %v", err)
	}
	if !reflect.DeepEqual(subs, []network.NodeID{ids[1], ids[2]}) {
		t.Errorf("Subscribers = %v, want [b c]", subs)
	}

	a, _ := n.Subject(ids[0])
	if got := a.Observers(); len(got) != 2 || got[0].ID() != "b" || got[1].ID() != "c" {
		t.Errorf("subject observers = %v, want [b c]", got)
	}

	if err := n.Unlink(ids[0], ids[1]); err != nil {
		t.Fatalf("Unlink failed: %v", err)
	}
	if err := n.Unlink(ids[0], ids[1]); err != nil {
		t.Fatalf("second Unlink failed: %v", err)
	}
	if got := a.Observers(); len(got) != 1 || got[0].ID() != "c" {
		t.Errorf("after unlink observers = %v, want [c]", got)
	}
}

func TestUnknownNode(t *testing.T) {
	n, ids := build(t, nil, "a")

	checks := map[string]error{
		"link":        n.Link(ids[0], 7),
		"unlink":      n.Unlink(-1, ids[0]),
		"broadcast":   n.Broadcast(context.Background(), 3, mixin.Event{Type: "x"}, network.Permissive),
		"subject":     func() error { _, err := n.Subject(9); return err }(),
		"subscribers": func() error { _, err := n.Subscribers(9); return err }(),
		"reachable":   func() error { _, err := n.Reachable(9); return err }(),
	}
	for name, err := range checks {
		if !errors.Is(err, network.ErrUnknownNode) {
			t.Errorf("%s error = %v, want ErrUnknownNode", name, err)
		}
	}
}

func TestFindCycle(t *testing.T) {
	tests := []struct {
		name  string
		links [][2]int
		want  []int
	}{
		{name: "empty links", links: nil, want: nil},
		{name: "chain", links: [][2]int{{0, 1}, {1, 2}}, want: nil},
		{name: "diamond", links: [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}, want: nil},
		{name: "ring", links: [][2]int{{0, 1}, {1, 2}, {2, 0}}, want: []int{0, 1, 2}},
		{name: "self link", links: [][2]int{{3, 3}}, want: []int{3}},
		{name: "tail into ring", links: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 1}}, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ids := build(t, nil, "a", "b", "c", "d")
			for _, l := range tt.links {
				link(t, n, [2]network.NodeID{ids[l[0]], ids[l[1]]})
			}

			got := n.FindCycle()
			if (got != nil) != n.HasCycle() {
				t.Error("HasCycle disagrees with FindCycle")
			}
			if tt.want == nil {
				if got != nil {
					t.Errorf("FindCycle = %v, want nil", got)
				}
				return
			}
			want := make([]network.NodeID, len(tt.want))
			for i, w := range tt.want {
				want[i] = ids[w]
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("FindCycle = %v, want %v", got, want)
			}
		})
	}
}

func TestReachable(t *testing.T) {
	n, ids := build(t, nil, "a", "b", "c", "d")
	link(t, n, [2]network.NodeID{ids[0], ids[1]}, [2]network.NodeID{ids[1], ids[2]}, [2]network.NodeID{ids[2], ids[0]})

	got, err := n.Reachable(ids[0])
	if err != nil {
		t.Fatalf("Reachable failed: %v", err)
	}
	if want := []network.NodeID{ids[1], ids[2], ids[0]}; !reflect.DeepEqual(got, want) {
		t.Errorf("Reachable = %v, want %v", got, want)
	}

	got, _ = n.Reachable(ids[3])
	if len(got) != 0 {
		t.Errorf("isolated node reaches %v", got)
	}
}

func TestSync(t *testing.T) {
	n, ids := build(t, nil, "a", "b")
	a, _ := n.Subject(ids[0])
	b, _ := n.Subject(ids[1])

	a.AddObserver(b)
	if subs, _ := n.Subscribers(ids[0]); len(subs) != 0 {
		t.Fatalf("direct subscription should not appear before Sync, got %v", subs)
	}

	n.Sync()
	if subs, _ := n.Subscribers(ids[0]); !reflect.DeepEqual(subs, []network.NodeID{ids[1]}) {
		t.Errorf("after Sync subscribers = %v, want [b]", subs)
	}
}

func TestBroadcast(t *testing.T) {
	counts := map[string]int{}
	relay := func(ctx context.Context, self mixin.Subject, ev mixin.Event) error {
		counts[self.ID()]++
		return mixin.Relay(ctx, self, ev)
	}
	n, ids := build(t, relay, "a", "b", "c")
	link(t, n, [2]network.NodeID{ids[0], ids[1]}, [2]network.NodeID{ids[1], ids[2]}, [2]network.NodeID{ids[2], ids[0]})

	if !n.HasCycle() {
		t.Fatal("ring should be cyclic")
	}
	if err := n.Broadcast(context.Background(), ids[0], mixin.Event{Type: "pulse"}, network.Guarded); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}

	want := map[string]int{"b": 1, "c": 1}
	if !reflect.DeepEqual(counts, want) {
		t.Errorf("observe counts = %v, want %v", counts, want)
	}
}

func TestBroadcast_Permissive(t *testing.T) {
	counts := map[string]int{}
	count := func(ctx context.Context, self mixin.Subject, ev mixin.Event) error {
		counts[self.ID()]++
		return nil
	}
	obs := &captureObserver{}
	n := network.New(obs)
	a, _ := n.Add(entity(t, "a", count))
	b, _ := n.Add(entity(t, "b", count))
	link(t, n, [2]network.NodeID{a, b}, [2]network.NodeID{b, a})

	if err := n.Broadcast(context.Background(), a, mixin.Event{Type: "pulse"}, network.Permissive); err != nil {
		t.Fatalf("Broadcast failed: %v", err)
	}
	if !reflect.DeepEqual(counts, map[string]int{"b": 1}) {
		t.Errorf("observe counts = %v, want only b once", counts)
	}

	last := obs.events[len(obs.events)-1]
	if last.Type != network.EventBroadcast || last.Data["policy"] != "permissive" {
		t.Errorf("last diagnostics event = %+v", last)
	}
}

func TestPolicy_String(t *testing.T) {
	if network.Guarded.String() != "guarded" || network.Policy(9).String() != "Policy(9)" {
		t.Error("unexpected policy names")
	}
}
