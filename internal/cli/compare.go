package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/results"
	"github.com/gbarbieri/equisuite/internal/util"
)

var compareCmd = &cobra.Command{
	Use:   "compare <run1> <run2> [run3...]",
	Short: "Compare final series values between runs",
	Long: `Compare the final value of every series side-by-side between two or
more runs.

Examples:
  equisuite compare 3f2a9c1b 7be40d22
  equisuite compare results/trace/20260823-101500-3f2a9c1b results/trace/20260823-103000-7be40d22`,
	Args: cobra.MinimumNArgs(2),
	RunE: runCompare,
}

func runCompare(cmd *cobra.Command, args []string) error {
	_, store, err := openStore()
	if err != nil {
		return err
	}

	var loaded []*results.RunData
	for _, ref := range args {
		dir, err := store.FindRunDir(ref)
		if err != nil {
			return err
		}
		data, err := results.LoadRun(dir)
		if err != nil {
			return err
		}
		loaded = append(loaded, data)
	}

	// Union of series names, in first-seen order across runs.
	var names []string
	seen := make(map[string]bool)
	for _, data := range loaded {
		for _, s := range data.Series {
			if !seen[s.Name] {
				seen[s.Name] = true
				names = append(names, s.Name)
			}
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	header := "SERIES"
	for _, data := range loaded {
		header += "\t" + compareLabel(data.Manifest)
	}
	fmt.Fprintln(w, header)
	for _, name := range names {
		row := name
		for _, data := range loaded {
			row += "\t" + finalValue(data, name)
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}

func compareLabel(m results.Manifest) string {
	if m.Tag != "" {
		return m.Tag
	}
	return shortID(m.ID)
}

func finalValue(data *results.RunData, name string) string {
	for _, s := range data.Series {
		if s.Name == name {
			if final, ok := s.Final(); ok {
				return util.FormatValue(final.Y)
			}
		}
	}
	return "-"
}
