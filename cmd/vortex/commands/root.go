package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/vortex/config"
	"github.com/tailored-agentic-units/vortex/internal/printer"
	"github.com/tailored-agentic-units/vortex/observability"
	"github.com/tailored-agentic-units/vortex/service"
)

var (
	configFile string
	remoteURL  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "vortex",
	Short: "Vortex - coil derivation and observation networks",
	Long: `Vortex derives helical coils of vortex-numbered nodes, colours them from
their consciousness and field resonance, and wires coil-bearing entities
into observation networks where interactions propagate between them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))
		slog.SetDefault(logger)
		observability.RegisterObserver("slog", observability.NewSlogObserver(logger))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version reported by --version.
func SetVersionInfo(v, c, d string) {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&remoteURL, "remote", "", "Base URL of a running vortex service to derive on")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
}

// loadConfig returns the file named by --config merged over the defaults.
func loadConfig() (*config.Config, error) {
	if configFile == "" {
		cfg := config.DefaultConfig()
		return &cfg, nil
	}

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, printer.Error(
			"Invalid configuration",
			err.Error(),
			[]string{fmt.Sprintf("Check the contents of %s", configFile)},
		)
	}
	return cfg, nil
}

func remoteClient() *service.Client {
	if remoteURL == "" {
		return nil
	}
	return service.NewClient(http.DefaultClient, remoteURL)
}
