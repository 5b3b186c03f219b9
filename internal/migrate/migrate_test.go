package migrate

import (
	"strings"
	"testing"
)

func TestLoadEmbeddedMigrations(t *testing.T) {
	all, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(all) == 0 {
		t.Fatal("no migrations embedded")
	}
	for i, m := range all {
		if m.Version != i+1 {
			t.Errorf("migration %d has version %d, want %d", i, m.Version, i+1)
		}
		if m.UpSQL == "" {
			t.Errorf("migration %d has empty up SQL", m.Version)
		}
	}
	first := all[0]
	if first.Name != "create_runs" {
		t.Errorf("first migration name = %q, want create_runs", first.Name)
	}
	if !strings.Contains(first.UpSQL, "CREATE TABLE") {
		t.Error("create_runs up SQL does not create a table")
	}
	if !strings.Contains(first.DownSQL, "DROP TABLE") {
		t.Error("create_runs down SQL does not drop the table")
	}
}
