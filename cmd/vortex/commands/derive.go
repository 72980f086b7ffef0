package commands

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/protojson"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/internal/printer"
	"github.com/tailored-agentic-units/vortex/service"
)

var (
	deriveTurns          int
	deriveRadius         float64
	deriveHeight         float64
	derivePhase          float64
	deriveConsciousness  float64
	deriveFieldResonance float64
	deriveJSON           bool
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive a coil and print its nodes",
	Long: `Derive a coil from the configured helix and print one line per node:
its vortex number, position, colour and consciousness band.

Flags override the coil section of --config. With --remote the coil is
derived by a running service instead of locally.

Examples:
  # Default 12 turn coil
  vortex derive

  # A bright, highly resonant 9 turn coil as JSON
  vortex derive --turns 9 --consciousness 0.9 --field-resonance 1 --json`,
	RunE: runDerive,
}

func init() {
	deriveCmd.Flags().IntVarP(&deriveTurns, "turns", "t", 0, "Node count")
	deriveCmd.Flags().Float64Var(&deriveRadius, "radius", 0, "Helix radius")
	deriveCmd.Flags().Float64Var(&deriveHeight, "height", 0, "Helix height")
	deriveCmd.Flags().Float64Var(&derivePhase, "phase", 0, "Helix phase offset in radians")
	deriveCmd.Flags().Float64Var(&deriveConsciousness, "consciousness", 0, "Consciousness in [0, 1]")
	deriveCmd.Flags().Float64Var(&deriveFieldResonance, "field-resonance", 0, "Field resonance in [0, 1]")
	deriveCmd.Flags().BoolVar(&deriveJSON, "json", false, "Print the result as JSON")

	rootCmd.AddCommand(deriveCmd)
}

// coilFlags overlays the changed derive flags on base.
func coilFlags(cmd *cobra.Command, base config.CoilConfig) config.CoilConfig {
	flags := cmd.Flags()
	if flags.Changed("turns") {
		base.Turns = deriveTurns
	}
	if flags.Changed("radius") {
		base.Radius = deriveRadius
	}
	if flags.Changed("height") {
		base.Height = deriveHeight
	}
	if flags.Changed("phase") {
		base.Phase = derivePhase
	}
	if flags.Changed("consciousness") {
		base.ConsciousnessNil = config.Scalar(deriveConsciousness)
	}
	if flags.Changed("field-resonance") {
		base.FieldResonanceNil = config.Scalar(deriveFieldResonance)
	}
	return base
}

func runDerive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	coilCfg := coilFlags(cmd, cfg.Coil)

	var res *service.DeriveResponse
	if client := remoteClient(); client != nil {
		res, err = client.Derive(cmd.Context(), coilCfg)
	} else {
		res, err = deriveLocal(coilCfg)
	}
	if err != nil {
		return printer.Error("Failed to derive coil", err.Error(), []string{
			"Turns, radius and height must be positive",
			"Consciousness and field resonance must lie in [0, 1]",
		})
	}

	out := cmd.OutOrStdout()
	if deriveJSON {
		return writeJSON(out, res)
	}
	writeNodes(out, res)
	return nil
}

func deriveLocal(cfg config.CoilConfig) (*service.DeriveResponse, error) {
	c, err := newCoil(cfg)
	if err != nil {
		return nil, err
	}
	return &service.DeriveResponse{
		Nodes:          c.Nodes(),
		Consciousness:  c.Consciousness(),
		FieldResonance: c.FieldResonance(),
	}, nil
}

// newCoil resolves cfg against the defaults before building, as the service
// does, so local and remote derivation accept the same flags.
func newCoil(cfg config.CoilConfig) (*coil.Coil, error) {
	resolved, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	return coil.New(resolved)
}

func writeJSON(w io.Writer, v any) error {
	msg, err := service.Encode(v)
	if err != nil {
		return err
	}
	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeNodes(w io.Writer, res *service.DeriveResponse) {
	fmt.Fprintf(w, "consciousness %.2f, field resonance %.2f\n\n", res.Consciousness, res.FieldResonance)
	for _, n := range res.Nodes {
		fmt.Fprintf(w, "%s %-5s %d  (%6.3f, %6.3f, %6.3f)  %s  %s\n",
			printer.Swatch(n.Color),
			humanize.Ordinal(n.Index+1),
			n.VortexNumber,
			n.Position.X, n.Position.Y, n.Position.Z,
			n.Color,
			n.MetaphysicalContext,
		)
	}
}
