package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "equisuite",
	Short: "Numerical experiments on equivariant linear maps",
	Long: `equisuite runs numerical experiments on the equivariant subspaces of
tensor representations of matrix groups.

Each run sweeps a parameter range, records measurement series as CSV under
the results directory, and is indexed in a local SQLite registry so past
runs can be listed, compared, and rendered into figures.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(figuresCmd)
	rootCmd.AddCommand(migrateCmd)
}
