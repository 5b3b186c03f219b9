package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/gbarbieri/equisuite/internal/domain"
)

// RunData is a fully loaded run: its manifest and all recorded series.
type RunData struct {
	Manifest Manifest
	Series   []domain.Series
}

// LoadManifest reads the manifest of a run directory.
func LoadManifest(dir string) (Manifest, error) {
	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		return m, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("failed to decode manifest: %w", err)
	}
	return m, nil
}

// LoadSeries reads one named series from a run directory.
func LoadSeries(dir, name string) (domain.Series, error) {
	s := domain.Series{Name: name}
	f, err := os.Open(filepath.Join(dir, name+".csv"))
	if err != nil {
		return s, fmt.Errorf("failed to open series file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return s, fmt.Errorf("failed to read series %s: %w", name, err)
	}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) != 2 {
			return s, fmt.Errorf("series %s row %d has %d columns, want 2", name, i, len(row))
		}
		x, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return s, fmt.Errorf("series %s row %d: %w", name, i, err)
		}
		y, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return s, fmt.Errorf("series %s row %d: %w", name, i, err)
		}
		s.Points = append(s.Points, domain.Point{X: x, Y: y})
	}
	return s, nil
}

// LoadRun reads a run directory: manifest plus every series it lists.
func LoadRun(dir string) (*RunData, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	out := &RunData{Manifest: m}
	for _, name := range m.Series {
		s, err := LoadSeries(dir, name)
		if err != nil {
			return nil, err
		}
		out.Series = append(out.Series, s)
	}
	return out, nil
}

// RunDirs returns every run directory under the store root, sorted by path.
// The timestamped directory names make this chronological per experiment.
func (s *Store) RunDirs() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if _, statErr := os.Stat(filepath.Join(path, manifestName)); statErr == nil {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan results store: %w", err)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// FindRunDir resolves a run reference: either a run directory path or a run
// ID (full or 8-char prefix) searched under the store root.
func (s *Store) FindRunDir(ref string) (string, error) {
	if fi, err := os.Stat(ref); err == nil && fi.IsDir() {
		return ref, nil
	}
	var found string
	err := filepath.WalkDir(s.root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		if _, statErr := os.Stat(filepath.Join(path, manifestName)); statErr != nil {
			return nil
		}
		m, err := LoadManifest(path)
		if err != nil {
			return nil
		}
		if m.ID == ref || (len(ref) >= 8 && len(m.ID) >= len(ref) && m.ID[:len(ref)] == ref) {
			found = path
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan results store: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("run %q not found under %s", ref, s.root)
	}
	return found, nil
}
