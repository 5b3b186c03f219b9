// Package results persists experiment runs on the filesystem. Every run gets
// its own directory under the store root, holding a JSON manifest and one
// CSV file per recorded series. The figure generator and the compare command
// consume these directories; the SQLite registry only indexes them.
package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gbarbieri/equisuite/internal/domain"
)

const manifestName = "manifest.json"

// Manifest is the on-disk description of a run.
type Manifest struct {
	ID         string           `json:"id"`
	Experiment string           `json:"experiment"`
	Group      string           `json:"group"`
	Tag        string           `json:"tag,omitempty"`
	Params     domain.RunParams `json:"params"`
	Status     domain.RunStatus `json:"status"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Error      string           `json:"error,omitempty"`
	Series     []string         `json:"series"`
}

// Store manages run directories under a root path.
type Store struct {
	root string
}

// NewStore opens (and creates if needed) a results store rooted at root.
func NewStore(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create results root: %w", err)
	}
	return &Store{root: root}, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Begin creates the directory for a run, writes the initial manifest, and
// returns a Recorder for it. The run's Dir and Status fields are filled in.
func (s *Store) Begin(run *domain.Run, params domain.RunParams) (*Recorder, error) {
	short := run.ID
	if len(short) > 8 {
		short = short[:8]
	}
	dir := filepath.Join(s.root, run.Experiment,
		fmt.Sprintf("%s-%s", run.StartedAt.UTC().Format("20060102-150405"), short))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}
	run.Dir = dir
	run.Status = domain.RunRunning

	rec := &Recorder{
		dir: dir,
		manifest: Manifest{
			ID:         run.ID,
			Experiment: run.Experiment,
			Group:      params.Group,
			Params:     params,
			Status:     domain.RunRunning,
			StartedAt:  run.StartedAt.UTC(),
		},
		series: make(map[string]*domain.Series),
	}
	if run.Tag != nil {
		rec.manifest.Tag = *run.Tag
	}
	if err := rec.writeManifest(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Recorder accumulates series for a single run and flushes them on Finish.
type Recorder struct {
	dir      string
	manifest Manifest
	series   map[string]*domain.Series
	order    []string
}

// Dir returns the run directory.
func (r *Recorder) Dir() string { return r.dir }

// Record appends a point to a named series.
func (r *Recorder) Record(series string, x, y float64) {
	s, ok := r.series[series]
	if !ok {
		s = &domain.Series{Name: series}
		r.series[series] = s
		r.order = append(r.order, series)
	}
	s.Points = append(s.Points, domain.Point{X: x, Y: y})
}

// Finish flushes all series to CSV and finalises the manifest. A non-nil
// runErr marks the run failed; its message is preserved in the manifest.
func (r *Recorder) Finish(runErr error) error {
	for _, name := range r.order {
		if err := r.writeSeries(r.series[name]); err != nil {
			return err
		}
	}
	now := time.Now().UTC()
	r.manifest.FinishedAt = &now
	r.manifest.Series = append([]string(nil), r.order...)
	if runErr != nil {
		r.manifest.Status = domain.RunFailed
		r.manifest.Error = runErr.Error()
	} else {
		r.manifest.Status = domain.RunCompleted
	}
	return r.writeManifest()
}

func (r *Recorder) writeManifest() error {
	data, err := json.MarshalIndent(r.manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.dir, manifestName), data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func (r *Recorder) writeSeries(s *domain.Series) error {
	f, err := os.Create(filepath.Join(r.dir, s.Name+".csv"))
	if err != nil {
		return fmt.Errorf("failed to create series file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y"}); err != nil {
		return fmt.Errorf("failed to write series header: %w", err)
	}
	for _, p := range s.Points {
		row := []string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write series row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
