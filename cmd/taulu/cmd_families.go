package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yairfalse/taulu/catalog"
)

// familiesCmd represents the families command
var familiesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the supported service families",
	Long: `Print the service catalog: every family Taulu can render, the
tagging-API filter it is discovered with, the ARN token it is matched by,
and whether its metrics live in the global region.

Use these keys in the families allow-list (config) or ENABLED_WIDGETS
(environment).`,
	Example: `  taulu families`,
	RunE:    runFamilies,
}

func init() {
	rootCmd.AddCommand(familiesCmd)
}

func runFamilies(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FAMILY\tTAG FILTER\tMATCH TOKEN\tGLOBAL")
	for _, e := range catalog.All {
		global := ""
		if e.IsGlobal {
			global = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Family, e.TagFilter, e.MatchToken, global)
	}
	return w.Flush()
}
