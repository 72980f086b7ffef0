package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/mixin"
	"github.com/tailored-agentic-units/vortex/observability"
	"github.com/tailored-agentic-units/vortex/service"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	if err := Execute(); err != nil {
		t.Fatalf("vortex %s failed: %v", strings.Join(args, " "), err)
	}
	return buf.String()
}

func TestDerive_JSON(t *testing.T) {
	out := execute(t, "derive", "--turns", "3", "--consciousness", "0.8", "--json")

	var res service.DeriveResponse
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(res.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(res.Nodes))
	}
	if res.Consciousness != 0.8 {
		t.Errorf("consciousness = %v, want 0.8", res.Consciousness)
	}
}

func TestDerive_ZeroTurnsTakesDefault(t *testing.T) {
	out := execute(t, "derive", "--turns", "0", "--json")

	var res service.DeriveResponse
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(res.Nodes) != config.DefaultTurns {
		t.Errorf("got %d nodes, want %d", len(res.Nodes), config.DefaultTurns)
	}
}

func TestResonanceLocal_MatchesService(t *testing.T) {
	req := service.ResonanceRequest{
		A:      config.CoilConfig{Turns: 9},
		B:      config.CoilConfig{Turns: 4},
		Cyclic: true,
	}
	got, err := resonanceLocal(req)
	if err != nil {
		t.Fatalf("resonanceLocal failed: %v", err)
	}
	if got != 1 {
		t.Errorf("resonance = %v, want 1", got)
	}

	if _, err := resonanceLocal(service.ResonanceRequest{A: config.CoilConfig{Turns: -1}}); err == nil {
		t.Error("expected error for negative turns")
	}
}

func TestResonance(t *testing.T) {
	out := execute(t, "resonance", "6", "12")

	if !strings.Contains(out, "resonance 1.0000") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestRing_Round(t *testing.T) {
	const size = 4

	counts := &tally{}
	r, err := buildRing(size, observability.NoOpObserver{}, func(i int) []mixin.Option {
		return []mixin.Option{
			mixin.WithObserver(counts),
			mixin.WithCoilConfig(config.CoilConfig{Turns: 6 + i}),
			mixin.WithHandler(watch(io.Discard)),
		}
	})
	if err != nil {
		t.Fatalf("buildRing failed: %v", err)
	}

	if cycle := r.net.FindCycle(); len(cycle) != size {
		t.Errorf("cycle length = %d, want %d", len(cycle), size)
	}

	if err := r.round(context.Background()); err != nil {
		t.Fatalf("round failed: %v", err)
	}

	if got := counts.get(mixin.EventInteraction); got != size {
		t.Errorf("interactions = %d, want %d", got, size)
	}

	for _, e := range r.entities {
		c := e.Coil()
		if math.Abs(c.FieldResonance()-0.6) > 1e-9 {
			t.Errorf("%s field resonance = %v, want 0.6", e.ID(), c.FieldResonance())
		}
		if math.Abs(c.Consciousness()-0.55) > 1e-9 {
			t.Errorf("%s consciousness = %v, want 0.55", e.ID(), c.Consciousness())
		}
	}
}
