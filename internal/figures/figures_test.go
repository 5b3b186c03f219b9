package figures

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/results"
)

func writeRun(t *testing.T, store *results.Store, id, experiment string, tag *string) string {
	t.Helper()
	run := &domain.Run{
		ID:         id,
		Experiment: experiment,
		Tag:        tag,
		StartedAt:  time.Now().UTC(),
	}
	rec, err := store.Begin(run, domain.DefaultParams())
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	rec.Record("basis_dim", 2, 1)
	rec.Record("basis_dim", 3, 1)
	rec.Record("trace_residual", 2, 1e-10)
	rec.Record("trace_residual", 3, 0)
	if err := rec.Finish(nil); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	return run.Dir
}

func TestRenderWritesOneFigurePerSeries(t *testing.T) {
	store, err := results.NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	tag := "baseline"
	dirA := writeRun(t, store, "aaaaaaaa-1111", "trace", &tag)
	dirB := writeRun(t, store, "bbbbbbbb-2222", "trace", nil)

	outDir := filepath.Join(t.TempDir(), "figures")
	written, err := Render([]string{dirA, dirB}, outDir)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("got %d figures, want 2", len(written))
	}
	for _, path := range written {
		fi, err := os.Stat(path)
		if err != nil {
			t.Fatalf("figure not written: %v", err)
		}
		if fi.Size() == 0 {
			t.Errorf("figure %s is empty", path)
		}
	}
	want := filepath.Join(outDir, "trace_basis_dim.png")
	if written[0] != want {
		t.Errorf("first figure = %s, want %s", written[0], want)
	}
}

func TestErrorLike(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{name: "trace_residual", want: true},
		{name: "diag_residual", want: true},
		{name: "idempotency_err", want: true},
		{name: "equivariance_err", want: true},
		{name: "basis_dim", want: false},
		{name: "spectral_gap", want: false},
	}
	for _, tt := range tests {
		if got := errorLike(tt.name); got != tt.want {
			t.Errorf("errorLike(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLogSeriesClampNonPositive(t *testing.T) {
	s := domain.Series{Points: []domain.Point{{X: 2, Y: 1e-10}, {X: 3, Y: 0}}}
	xys := toXYs(s, true)
	if xys[0].Y != 1e-10 {
		t.Errorf("positive value changed: %v", xys[0].Y)
	}
	if xys[1].Y <= 0 {
		t.Errorf("zero value not clamped for log axis: %v", xys[1].Y)
	}
	linear := toXYs(s, false)
	if linear[1].Y != 0 {
		t.Errorf("linear axis value changed: %v", linear[1].Y)
	}
}

func TestRenderRejectsMissingRun(t *testing.T) {
	if _, err := Render([]string{"/nonexistent/run"}, t.TempDir()); err == nil {
		t.Error("expected error for missing run directory")
	}
}
