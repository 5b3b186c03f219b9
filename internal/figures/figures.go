// Package figures renders recorded run series into PNG plots. One figure is
// produced per experiment and series name; runs sharing both are overlaid as
// separate lines so parameter sweeps can be compared visually.
package figures

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/results"
)

type lineEntry struct {
	label  string
	points domain.Series
}

// Render loads every run directory and writes one PNG per experiment/series
// pair into outDir. It returns the written file paths.
func Render(runDirs []string, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create figures directory: %w", err)
	}

	// Key figures by experiment and series so overlapping runs share axes.
	type figKey struct{ experiment, series string }
	lines := make(map[figKey][]lineEntry)
	var order []figKey

	for _, dir := range runDirs {
		data, err := results.LoadRun(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load run %s: %w", dir, err)
		}
		for _, s := range data.Series {
			key := figKey{experiment: data.Manifest.Experiment, series: s.Name}
			if _, ok := lines[key]; !ok {
				order = append(order, key)
			}
			lines[key] = append(lines[key], lineEntry{
				label:  runLabel(data.Manifest),
				points: s,
			})
		}
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].experiment != order[j].experiment {
			return order[i].experiment < order[j].experiment
		}
		return order[i].series < order[j].series
	})

	var written []string
	for _, key := range order {
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s: %s", key.experiment, key.series)
		p.X.Label.Text = "x"
		p.Y.Label.Text = key.series
		p.Legend.Top = true

		logY := errorLike(key.series)
		if logY {
			p.Y.Scale = plot.LogScale{}
			p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		}

		var args []interface{}
		for _, entry := range lines[key] {
			args = append(args, entry.label, toXYs(entry.points, logY))
		}
		if err := plotutil.AddLinePoints(p, args...); err != nil {
			return nil, fmt.Errorf("failed to plot %s/%s: %w", key.experiment, key.series, err)
		}

		path := filepath.Join(outDir, fmt.Sprintf("%s_%s.png", key.experiment, key.series))
		if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("failed to save figure: %w", err)
		}
		written = append(written, path)
	}
	return written, nil
}

// runLabel names a line in the legend: the tag when one was set, else the
// short run ID.
func runLabel(m results.Manifest) string {
	if m.Tag != "" {
		return m.Tag
	}
	if len(m.ID) > 8 {
		return m.ID[:8]
	}
	return m.ID
}

// logFloor replaces non-positive values on log-scaled axes; residuals at
// exactly zero would otherwise make the scale unusable.
const logFloor = 1e-16

// errorLike reports whether a series holds residual or error magnitudes,
// which plot on a log Y axis.
func errorLike(name string) bool {
	return strings.HasSuffix(name, "_residual") || strings.HasSuffix(name, "_err")
}

func toXYs(s domain.Series, logY bool) plotter.XYs {
	xys := make(plotter.XYs, len(s.Points))
	for i, p := range s.Points {
		xys[i].X = p.X
		y := p.Y
		if logY && y < logFloor {
			y = logFloor
		}
		xys[i].Y = y
	}
	return xys
}
