package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/experiments"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available experiments",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "EXPERIMENT\tDESCRIPTION")
	for _, e := range experiments.All() {
		fmt.Fprintf(w, "%s\t%s\n", e.Name(), e.Description())
	}
	return w.Flush()
}
