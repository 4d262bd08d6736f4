package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yairfalse/taulu/config"
	"github.com/yairfalse/taulu/dashboard"
	"github.com/yairfalse/taulu/internal/telemetry"
	awsprovider "github.com/yairfalse/taulu/providers/aws"
	taulutelemetry "github.com/yairfalse/taulu/telemetry"
)

var (
	buildConfigPath    string
	buildRegion        string
	buildDashboardName string
	buildTagKey        string
	buildTagValue      string
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dashboard once and exit",
	Long: `Discover resources carrying the configured tag, build the widget
layout, and overwrite the named CloudWatch dashboard.

The build is best-effort: a resource that cannot be rendered is logged
and skipped, missing metrics silently omit their SLO aggregate, and an
empty discovery writes a placeholder widget. Only the final dashboard
write can fail the run.`,
	Example: `  taulu build --config taulu.yaml           # Config file
  taulu build                                # Env vars (DASHBOARD_NAME, TAG_KEY, ...)
  taulu build --region eu-west-1 --name ops --tag-key ManagedBy --tag-value taulu`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildConfigPath, "config", "c", "", "Path to YAML config (default: environment variables)")
	buildCmd.Flags().StringVarP(&buildRegion, "region", "r", "", "AWS region (overrides config)")
	buildCmd.Flags().StringVar(&buildDashboardName, "name", "", "Dashboard name (overrides config)")
	buildCmd.Flags().StringVar(&buildTagKey, "tag-key", "", "Tag key to discover by (overrides config)")
	buildCmd.Flags().StringVar(&buildTagValue, "tag-value", "", "Tag value to discover by (overrides config)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	provider, err := telemetry.NewProvider(ctx, cfg.OTEL, telemetry.Options{})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}()

	assembler, err := newAssembler(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result, err := assembler.Build(ctx, cfg)
	if err != nil {
		return err
	}

	fmt.Println(result.Summary())
	return nil
}

// loadConfig reads the config file when given, the environment otherwise,
// then applies flag overrides.
func loadConfig() (*config.Config, zerolog.Logger, error) {
	bootstrap := taulutelemetry.NewLogger("taulu", "info")

	var cfg *config.Config
	var err error
	if buildConfigPath != "" {
		cfg, err = config.Load(buildConfigPath, bootstrap)
	} else {
		cfg, err = config.FromEnv(bootstrap)
	}
	if err != nil {
		return nil, bootstrap, err
	}

	if buildRegion != "" {
		cfg.Region = buildRegion
	}
	if buildDashboardName != "" {
		cfg.DashboardName = buildDashboardName
	}
	if buildTagKey != "" {
		cfg.Tag.Key = buildTagKey
	}
	if buildTagValue != "" {
		cfg.Tag.Value = buildTagValue
	}
	if err := cfg.Validate(); err != nil {
		return nil, bootstrap, fmt.Errorf("invalid config: %w", err)
	}

	logger := taulutelemetry.NewLogger(cfg.OTEL.ServiceName, cfg.Log.Level)
	return cfg, logger, nil
}

func newAssembler(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*dashboard.Assembler, error) {
	client, err := awsprovider.NewClient(ctx, cfg.Region, logger)
	if err != nil {
		return nil, fmt.Errorf("create AWS client: %w", err)
	}
	return dashboard.New(client, client, client, logger), nil
}
