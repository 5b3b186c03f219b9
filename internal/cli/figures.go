package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/figures"
)

var figuresCmd = &cobra.Command{
	Use:   "figures [run...]",
	Short: "Render run series into PNG figures",
	Long: `Render recorded series into PNG figures, one per experiment and
series. With no arguments every run under the results directory is included;
runs of the same experiment are overlaid for comparison.

Examples:
  equisuite figures
  equisuite figures 3f2a9c1b 7be40d22 --out paper/figures`,
	RunE: runFigures,
}

var figuresOut string

func init() {
	figuresCmd.Flags().StringVarP(&figuresOut, "out", "o", "", "Output directory (default <results>/figures)")
}

func runFigures(cmd *cobra.Command, args []string) error {
	cfg, store, err := openStore()
	if err != nil {
		return err
	}

	var dirs []string
	if len(args) == 0 {
		dirs, err = store.RunDirs()
		if err != nil {
			return err
		}
		if len(dirs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}
	} else {
		for _, ref := range args {
			dir, err := store.FindRunDir(ref)
			if err != nil {
				return err
			}
			dirs = append(dirs, dir)
		}
	}

	outDir := figuresOut
	if outDir == "" {
		outDir = filepath.Join(cfg.ResultsDir, "figures")
	}
	written, err := figures.Render(dirs, outDir)
	if err != nil {
		return err
	}
	for _, path := range written {
		fmt.Println(path)
	}
	fmt.Printf("Wrote %d figures to %s\n", len(written), outDir)
	return nil
}
