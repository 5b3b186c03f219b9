package results

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gbarbieri/equisuite/internal/domain"
)

func beginRun(t *testing.T, store *Store) (*domain.Run, *Recorder) {
	t.Helper()
	run := &domain.Run{
		ID:         "0123456789abcdef",
		Experiment: "trace",
		StartedAt:  time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC),
	}
	rec, err := store.Begin(run, domain.DefaultParams())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	return run, rec
}

func TestBeginCreatesRunDirAndManifest(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	run, _ := beginRun(t, store)

	if run.Dir == "" {
		t.Fatal("run dir not set")
	}
	if filepath.Dir(run.Dir) != filepath.Join(store.Root(), "trace") {
		t.Errorf("run dir %s not under experiment folder", run.Dir)
	}
	m, err := LoadManifest(run.Dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.ID != run.ID || m.Status != domain.RunRunning {
		t.Errorf("unexpected manifest: %+v", m)
	}
}

func TestFinishWritesSeriesAndStatus(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	run, rec := beginRun(t, store)

	rec.Record("basis_dim", 2, 1)
	rec.Record("basis_dim", 3, 1)
	rec.Record("residual", 3, 1e-9)
	if err := rec.Finish(nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	data, err := LoadRun(run.Dir)
	if err != nil {
		t.Fatalf("LoadRun: %v", err)
	}
	if data.Manifest.Status != domain.RunCompleted {
		t.Errorf("status = %s, want completed", data.Manifest.Status)
	}
	if data.Manifest.FinishedAt == nil {
		t.Error("finished_at not set")
	}
	if len(data.Series) != 2 {
		t.Fatalf("got %d series, want 2", len(data.Series))
	}
	if data.Series[0].Name != "basis_dim" || len(data.Series[0].Points) != 2 {
		t.Errorf("unexpected first series: %+v", data.Series[0])
	}
	if p, ok := data.Series[1].Final(); !ok || p.Y != 1e-9 {
		t.Errorf("unexpected final point: %+v", p)
	}
}

func TestFinishRecordsFailure(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	run, rec := beginRun(t, store)

	if err := rec.Finish(errors.New("SVD failed to converge")); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	m, err := LoadManifest(run.Dir)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if m.Status != domain.RunFailed {
		t.Errorf("status = %s, want failed", m.Status)
	}
	if m.Error != "SVD failed to converge" {
		t.Errorf("error = %q", m.Error)
	}
}

func TestFindRunDir(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	run, rec := beginRun(t, store)
	if err := rec.Finish(nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	tests := []struct {
		name string
		ref  string
	}{
		{name: "by path", ref: run.Dir},
		{name: "by full id", ref: run.ID},
		{name: "by id prefix", ref: run.ID[:8]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := store.FindRunDir(tt.ref)
			if err != nil {
				t.Fatalf("FindRunDir(%q): %v", tt.ref, err)
			}
			if dir != run.Dir {
				t.Errorf("got %s, want %s", dir, run.Dir)
			}
		})
	}

	if _, err := store.FindRunDir("deadbeef"); err == nil {
		t.Error("expected error for unknown run")
	}
}

func TestLoadSeriesRejectsMalformedRows(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.csv"), []byte("x,y\n1,notanumber\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSeries(dir, "bad"); err == nil {
		t.Error("expected parse error")
	}
}
