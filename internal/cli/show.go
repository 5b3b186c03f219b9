package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/results"
	"github.com/gbarbieri/equisuite/internal/util"
)

var showCmd = &cobra.Command{
	Use:   "show <run>",
	Short: "Show a run's parameters and recorded series",
	Long: `Show the manifest and series of a run. The run is referenced by its
directory path, full ID, or an ID prefix of at least eight characters.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}
	dir, err := store.FindRunDir(args[0])
	if err != nil {
		return err
	}
	data, err := results.LoadRun(dir)
	if err != nil {
		return err
	}
	m := data.Manifest

	fmt.Printf("Run:        %s\n", m.ID)
	fmt.Printf("Experiment: %s\n", m.Experiment)
	fmt.Printf("Group:      %s\n", m.Group)
	if m.Tag != "" {
		fmt.Printf("Tag:        %s\n", m.Tag)
	}
	fmt.Printf("Status:     %s\n", m.Status)
	fmt.Printf("Started:    %s\n", util.FormatDateTime(m.StartedAt))
	if m.FinishedAt != nil {
		fmt.Printf("Finished:   %s\n", util.FormatDateTime(*m.FinishedAt))
	}
	if m.Error != "" {
		fmt.Printf("Error:      %s\n", m.Error)
	}
	fmt.Printf("Params:     d=%d..%d, max rank %d, %d trials, seed %d\n",
		m.Params.MinDim, m.Params.MaxDim, m.Params.MaxRank, m.Params.Trials, m.Params.Seed)
	fmt.Printf("Directory:  %s\n\n", dir)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tPOINTS\tFINAL")
	for _, s := range data.Series {
		final, _ := s.Final()
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, len(s.Points), util.FormatValue(final.Y))
	}
	return w.Flush()
}
