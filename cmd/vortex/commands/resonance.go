package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/vortex/coil"
	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/internal/printer"
	"github.com/tailored-agentic-units/vortex/service"
)

var resonanceCyclic bool

var resonanceCmd = &cobra.Command{
	Use:   "resonance TURNS_A TURNS_B",
	Short: "Measure the resonance between two coils",
	Long: `Measure the share of aligned nodes two coils agree on by vortex number.
Both coils otherwise use the coil section of --config.

Examples:
  vortex resonance 6 12
  vortex resonance 9 4 --cyclic`,
	Args: cobra.ExactArgs(2),
	RunE: runResonance,
}

func init() {
	resonanceCmd.Flags().BoolVar(&resonanceCyclic, "cyclic", false, "Take the best alignment over every rotation of the vortex cycle")
	rootCmd.AddCommand(resonanceCmd)
}

func runResonance(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	req := service.ResonanceRequest{A: cfg.Coil, B: cfg.Coil, Cyclic: resonanceCyclic}
	for i, dst := range []*config.CoilConfig{&req.A, &req.B} {
		turns, err := strconv.Atoi(args[i])
		if err != nil {
			return printer.Error("Invalid turn count", fmt.Sprintf("%q is not an integer", args[i]), nil)
		}
		dst.Turns = turns
	}

	var r float64
	if client := remoteClient(); client != nil {
		r, err = client.Resonance(cmd.Context(), req)
	} else {
		r, err = resonanceLocal(req)
	}
	if err != nil {
		return printer.Error("Failed to measure resonance", err.Error(), nil)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "resonance %.4f\n", r)
	return nil
}

func resonanceLocal(req service.ResonanceRequest) (float64, error) {
	a, err := newCoil(req.A)
	if err != nil {
		return 0, err
	}
	b, err := newCoil(req.B)
	if err != nil {
		return 0, err
	}
	if req.Cyclic {
		return coil.CyclicResonance(a.Nodes(), b.Nodes()), nil
	}
	return coil.Resonance(a.Nodes(), b.Nodes()), nil
}
