package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	rootCmd = &cobra.Command{
		Use:   "taulu",
		Short: "Tag-driven CloudWatch dashboards",
		Long: `Taulu - Tag-driven CloudWatch dashboards

Taulu turns tagged AWS resources into a CloudWatch dashboard: it finds
every resource carrying a chosen tag, picks the right widget for each
service type, synthesizes aggregate SLO widgets across resource families,
and overwrites the dashboard in place. No state, no drift - the tag IS
the dashboard definition.`,
		Version: version,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`Taulu {{.Version}} - Tag-driven CloudWatch dashboards
`)
}
