package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/registry"
	"github.com/gbarbieri/equisuite/internal/util"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded runs",
	Long: `List past runs from the run registry, newest first.

Examples:
  equisuite runs
  equisuite runs --experiment trace --limit 10`,
	RunE: runRuns,
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Remove a run from the registry",
	Long:  `Remove a run from the registry. The results directory is left untouched.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsDelete,
}

// Flags
var (
	runsExperiment string
	runsGroup      string
	runsLimit      int
)

func init() {
	runsCmd.AddCommand(runsDeleteCmd)

	runsCmd.Flags().StringVarP(&runsExperiment, "experiment", "e", "", "Filter by experiment")
	runsCmd.Flags().StringVarP(&runsGroup, "group", "g", "", "Filter by group")
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "Maximum number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, _, err := openStore()
	if err != nil {
		return err
	}
	db, err := registry.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open run registry: %w", err)
	}
	defer db.Close()

	runs, err := registry.NewRunRepository(db).List(ctx, registry.ListFilter{
		Experiment: runsExperiment,
		Group:      runsGroup,
		Limit:      runsLimit,
	})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEXPERIMENT\tGROUP\tSTATUS\tSTARTED\tDURATION\tTAG")
	for _, r := range runs {
		tag := ""
		if r.Tag != nil {
			tag = *r.Tag
		}
		duration := "-"
		if r.FinishedAt != nil {
			duration = util.FormatDuration(r.Duration())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(r.ID), r.Experiment, r.Group, r.Status,
			util.FormatDateTime(r.StartedAt), duration, tag)
	}
	return w.Flush()
}

func runRunsDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, _, err := openStore()
	if err != nil {
		return err
	}
	db, err := registry.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open run registry: %w", err)
	}
	defer db.Close()

	repo := registry.NewRunRepository(db)
	run, err := repo.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if err := repo.Delete(ctx, run.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted run %s from the registry (results kept at %s)\n", shortID(run.ID), run.Dir)
	return nil
}
