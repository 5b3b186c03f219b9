package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/config"
	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/experiments"
	"github.com/gbarbieri/equisuite/internal/registry"
	"github.com/gbarbieri/equisuite/internal/results"
	"github.com/gbarbieri/equisuite/internal/telemetry"
	"github.com/gbarbieri/equisuite/internal/util"
)

var runCmd = &cobra.Command{
	Use:   "run <experiment>",
	Short: "Run an experiment",
	Long: `Run an experiment and record its series under the results directory.

Examples:
  equisuite run trace --group so --min-dim 2 --max-dim 6
  equisuite run invariants --group s --max-rank 4 --tag bell-check`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

// Flags
var (
	runGroup   string
	runMinDim  int
	runMaxDim  int
	runMaxRank int
	runTrials  int
	runSeed    int64
	runTag     string
)

func init() {
	defaults := domain.DefaultParams()
	runCmd.Flags().StringVarP(&runGroup, "group", "g", defaults.Group, "Group to use (so, o, s, z, trivial)")
	runCmd.Flags().IntVar(&runMinDim, "min-dim", defaults.MinDim, "Smallest base dimension of the sweep")
	runCmd.Flags().IntVar(&runMaxDim, "max-dim", defaults.MaxDim, "Largest base dimension of the sweep")
	runCmd.Flags().IntVar(&runMaxRank, "max-rank", defaults.MaxRank, "Largest tensor order considered")
	runCmd.Flags().IntVar(&runTrials, "trials", defaults.Trials, "Random samples per sweep point")
	runCmd.Flags().Int64Var(&runSeed, "seed", defaults.Seed, "Seed for random sampling")
	runCmd.Flags().StringVarP(&runTag, "tag", "t", "", "Label for the run, used in listings and figure legends")
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	exp, err := experiments.Lookup(args[0])
	if err != nil {
		return err
	}
	params := domain.RunParams{
		Group:   runGroup,
		MinDim:  runMinDim,
		MaxDim:  runMaxDim,
		MaxRank: runMaxRank,
		Trials:  runTrials,
		Seed:    runSeed,
	}
	if params.MinDim < 1 || params.MaxDim < params.MinDim {
		return fmt.Errorf("invalid dimension range %d..%d", params.MinDim, params.MaxDim)
	}
	if params.MaxRank < 1 {
		return fmt.Errorf("max rank must be at least 1")
	}

	cfg, store, err := openStore()
	if err != nil {
		return err
	}

	run := &domain.Run{
		ID:         uuid.New().String(),
		Experiment: exp.Name(),
		Group:      params.Group,
		Status:     domain.RunPending,
		StartedAt:  time.Now().UTC(),
	}
	if runTag != "" {
		run.Tag = &runTag
	}

	rec, err := store.Begin(run, params)
	if err != nil {
		return fmt.Errorf("failed to begin run: %w", err)
	}

	// The registry is an index over the results tree, not the source of
	// truth; a broken database downgrades to a warning.
	var repo *registry.RunRepository
	db, err := registry.Open(ctx, cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run registry unavailable: %v\n", err)
	} else {
		defer db.Close()
		repo = registry.NewRunRepository(db)
		if err := repo.Create(ctx, run); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to register run: %v\n", err)
			repo = nil
		}
	}

	fmt.Printf("Running %s (group %s, d=%d..%d)\n", exp.Name(), params.Group, params.MinDim, params.MaxDim)
	runErr := exp.Run(ctx, params, rec)

	if err := rec.Finish(runErr); err != nil {
		return fmt.Errorf("failed to finalise run: %w", err)
	}
	now := time.Now().UTC()
	run.FinishedAt = &now
	if runErr != nil {
		run.Status = domain.RunFailed
		msg := runErr.Error()
		run.Error = &msg
	} else {
		run.Status = domain.RunCompleted
	}
	if repo != nil {
		if err := repo.Finish(ctx, run); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to update run registry: %v\n", err)
		}
	}

	data, err := results.LoadRun(run.Dir)
	if err != nil {
		return fmt.Errorf("failed to load run back: %w", err)
	}
	exportMetrics(ctx, cfg, run, basisDimValues(data))

	if runErr != nil {
		return fmt.Errorf("run %s failed: %w", shortID(run.ID), runErr)
	}
	return printRunSummary(run, data)
}

// basisDimValues collects every basis-dimension measurement a run recorded,
// across the series names the experiments use for them.
func basisDimValues(data *results.RunData) []float64 {
	var out []float64
	for _, s := range data.Series {
		switch {
		case s.Name == "basis_dim", s.Name == "subspace_dim", s.Name == "null_dim",
			strings.HasPrefix(s.Name, "dim_"):
			for _, p := range s.Points {
				out = append(out, p.Y)
			}
		}
	}
	return out
}

// exportMetrics ships run metrics when telemetry is configured. Failures
// never fail the run.
func exportMetrics(ctx context.Context, cfg *config.Config, run *domain.Run, basisDims []float64) {
	exporter, err := telemetry.New(ctx, telemetry.Config{
		Endpoint: cfg.OtelEndpoint,
		Enabled:  cfg.OtelEnabled,
		Insecure: cfg.OtelInsecure,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: telemetry unavailable: %v\n", err)
		return
	}
	if err := exporter.ExportRunMetrics(ctx, run, basisDims); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to export metrics: %v\n", err)
	}
	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := exporter.Close(flushCtx); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to flush metrics: %v\n", err)
	}
}

// printRunSummary prints the final value of every recorded series.
func printRunSummary(run *domain.Run, data *results.RunData) error {
	fmt.Printf("\nRun %s completed in %s\n", shortID(run.ID), util.FormatDuration(run.Duration()))
	fmt.Printf("Results: %s\n\n", run.Dir)

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "SERIES\tPOINTS\tFINAL")
	for _, s := range data.Series {
		final, _ := s.Final()
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, len(s.Points), util.FormatValue(final.Y))
	}
	return w.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
