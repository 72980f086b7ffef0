package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/tailored-agentic-units/vortex/internal/printer"
	"github.com/tailored-agentic-units/vortex/service"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve coil derivation over connect-rpc",
	Long: `Serve the Derive, Resonance and Field procedures of vortex.v1.CoilService
over the Connect, gRPC and gRPC-Web protocols until interrupted.

Examples:
  vortex serve --addr 127.0.0.1:8099
  vortex derive --remote http://127.0.0.1:8099 --turns 9`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Service.Addr = serveAddr
	}

	svc, err := service.New(cfg.Service)
	if err != nil {
		return printer.Error("Failed to start service", err.Error(), nil)
	}

	srv := &http.Server{
		Addr:              cfg.Service.Addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	printer.Success(cmd.OutOrStdout(), "serving %s on %s\n", service.ServiceName, cfg.Service.Addr)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return printer.Error("Service stopped", err.Error(), []string{"Check that the address is free"})
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "addr", cfg.Service.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
