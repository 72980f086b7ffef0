package commands

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/internal/printer"
	"github.com/tailored-agentic-units/vortex/mixin"
	"github.com/tailored-agentic-units/vortex/network"
	"github.com/tailored-agentic-units/vortex/observability"
)

var (
	demoSize   int
	demoRounds int
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run interactions around a ring of coil entities",
	Long: `Compose a ring of coil-bearing entities, each observing the one before it,
and run rounds in which every entity sends a coil interaction to its
neighbour. Each interaction raises the receiver's field resonance, which its
own observers then see.

Examples:
  vortex demo
  vortex demo --size 9 --rounds 5 --verbose`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().IntVar(&demoSize, "size", 6, "Number of entities in the ring")
	demoCmd.Flags().IntVar(&demoRounds, "rounds", 3, "Number of interaction rounds")
	rootCmd.AddCommand(demoCmd)
}

// ring is a closed chain of coil entities, each linked to the next.
type ring struct {
	net      *network.Network
	ids      []network.NodeID
	entities []*mixin.CoilEntity[string]
}

func runDemo(cmd *cobra.Command, args []string) error {
	if demoSize < 2 {
		return printer.Error("Ring too small", fmt.Sprintf("a ring needs at least 2 entities, got %d", demoSize), nil)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	obs, err := observability.GetObserver(cfg.Entity.Observer)
	if err != nil {
		return printer.Error("Unknown observer", err.Error(), []string{
			fmt.Sprintf("Use one of: %v", observability.Observers()),
		})
	}

	counts := &tally{}
	obs = observability.NewMultiObserver(obs, counts)

	out := cmd.OutOrStdout()
	r, err := buildRing(demoSize, obs, func(i int) []mixin.Option {
		coilCfg := cfg.Coil
		coilCfg.Turns += i
		coilCfg.Phase += float64(i) * coil.GoldenAngle
		return []mixin.Option{
			mixin.WithConfig(cfg.Entity),
			mixin.WithObserver(obs),
			mixin.WithID(fmt.Sprintf("coil-%d", i)),
			mixin.WithCoilConfig(coilCfg),
			mixin.WithHandler(watch(out)),
		}
	})
	if err != nil {
		return printer.Error("Failed to build ring", err.Error(), nil)
	}

	if cycle := r.net.FindCycle(); len(cycle) > 0 {
		printer.Step(out, "ring closes through %d entities\n", len(cycle))
	}

	ctx := cmd.Context()
	for round := 1; round <= demoRounds; round++ {
		printer.Step(out, "%s round\n", humanize.Ordinal(round))
		if err := r.round(ctx); err != nil {
			printer.Warning(out, "%v\n", err)
		}
	}

	fmt.Fprintln(out)
	for _, e := range r.entities {
		c := e.Coil()
		fmt.Fprintf(out, "%s %-8s field resonance %.3f  consciousness %.3f (%s)\n",
			printer.Swatch(c.Colors()[0]), e.ID(), c.FieldResonance(), c.Consciousness(), coil.Band(c.Consciousness()))
	}
	printer.Success(out, "%d rounds across %d entities: %s interactions, %s notifications\n",
		demoRounds, demoSize,
		humanize.Comma(counts.get(mixin.EventInteraction)),
		humanize.Comma(counts.get(mixin.EventNotify)))
	return nil
}

// buildRing composes size entities with the options opts returns for each
// index and links entity i to entity i+1, wrapping at the end.
func buildRing(size int, obs observability.Observer, opts func(i int) []mixin.Option) (*ring, error) {
	r := &ring{
		net:      network.New(obs),
		ids:      make([]network.NodeID, size),
		entities: make([]*mixin.CoilEntity[string], size),
	}

	for i := range size {
		e, err := mixin.ComposeCoil(fmt.Sprintf("coil %d", i), opts(i)...)
		if err != nil {
			return nil, err
		}
		id, err := r.net.Add(e)
		if err != nil {
			return nil, err
		}
		r.entities[i] = e
		r.ids[i] = id
	}

	for i := range size {
		if err := r.net.Link(r.ids[i], r.ids[(i+1)%size]); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// round sends one interaction from every entity to its successor, then lifts
// each entity's consciousness a step.
func (r *ring) round(ctx context.Context) error {
	for i, e := range r.entities {
		next := r.entities[(i+1)%len(r.entities)]
		ev := mixin.NewInteraction(e, next.ID())
		if err := r.net.Broadcast(ctx, r.ids[i], ev, network.Guarded); err != nil {
			return err
		}
	}
	for _, e := range r.entities {
		if _, err := e.UpdateCoilConsciousness(ctx, e.Coil().Consciousness()+0.05); err != nil {
			return err
		}
	}
	return nil
}

// tally counts diagnostics events by type.
type tally struct {
	mu     sync.Mutex
	counts map[observability.EventType]int64
}

func (t *tally) OnEvent(ctx context.Context, event observability.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.counts == nil {
		t.counts = make(map[observability.EventType]int64)
	}
	t.counts[event.Type]++
}

func (t *tally) get(typ observability.EventType) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[typ]
}

func watch(w io.Writer) mixin.Handler {
	return func(ctx context.Context, self mixin.Subject, ev mixin.Event) error {
		switch ev.Type {
		case mixin.CoilFieldResonanceChanged:
			fmt.Fprintf(w, "  %s sees %s field resonance %.3f -> %.3f\n",
				self.ID(), ev.SourceID, ev.Data["previous"], ev.Data["field_resonance"])
		case mixin.CoilConsciousnessChanged:
			fmt.Fprintf(w, "  %s sees %s consciousness %.3f -> %.3f\n",
				self.ID(), ev.SourceID, ev.Data["previous"], ev.Data["consciousness"])
		}
		return nil
	}
}
