package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yairfalse/taulu/internal/daemon"
	"github.com/yairfalse/taulu/internal/telemetry"
)

var (
	daemonInterval    time.Duration
	daemonMetricsPort int
)

// daemonCmd represents the daemon command
var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Rebuild the dashboard continuously",
	Long: `Run Taulu in daemon mode: rebuild the dashboard at a fixed interval
so newly tagged resources appear without redeploying anything.

Features:
- Continuous rebuild loop, one full overwrite per tick
- Prometheus metrics on /metrics
- Health checks on /health, /-/healthy, /-/ready
- Graceful shutdown on SIGTERM/SIGINT`,
	Example: `  taulu daemon --config taulu.yaml     # Rebuild every config interval
  taulu daemon --interval 10m          # Override the interval
  taulu daemon --metrics-port 9090     # Custom metrics port`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.Flags().StringVarP(&buildConfigPath, "config", "c", "", "Path to YAML config (default: environment variables)")
	daemonCmd.Flags().DurationVar(&daemonInterval, "interval", 0, "Rebuild interval (overrides config)")
	daemonCmd.Flags().IntVar(&daemonMetricsPort, "metrics-port", 0, "Metrics HTTP server port (overrides config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if daemonInterval > 0 {
		cfg.Daemon.Interval = daemonInterval
	}
	if daemonMetricsPort > 0 {
		cfg.Daemon.MetricsPort = daemonMetricsPort
	}

	provider, err := telemetry.NewProvider(ctx, cfg.OTEL, telemetry.Options{Prometheus: true})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	assembler, err := newAssembler(ctx, cfg, logger)
	if err != nil {
		return err
	}

	d, err := daemon.New(assembler, cfg, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	logger.Info().
		Str("dashboard", cfg.DashboardName).
		Str("region", cfg.Region).
		Dur("interval", cfg.Daemon.Interval).
		Int("metrics_port", cfg.Daemon.MetricsPort).
		Msg("taulu daemon starting")

	if err := d.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	logger.Info().Msg("taulu daemon stopped")
	return nil
}
