// Package registry persists run metadata in a local SQLite database so
// past experiment runs can be listed and compared without scanning the
// results tree.
package registry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/gbarbieri/equisuite/internal/domain"
	"github.com/gbarbieri/equisuite/internal/migrate"
)

// Open opens the registry database at path and applies pending migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := OpenRaw(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRaw opens the registry database without touching the schema. The
// migrate command uses it to run migrations explicitly.
func OpenRaw(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("libsql", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// Migrate brings the schema up to the latest embedded migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to ensure migrations table: %w", err)
	}
	version, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d, manual intervention required", version)
	}
	all, err := migrate.Load()
	if err != nil {
		return fmt.Errorf("failed to load migrations: %w", err)
	}
	return migrate.Up(ctx, db, all, version)
}

// RunRepository stores and queries experiment runs.
type RunRepository struct {
	db *sql.DB
}

func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new run record.
func (r *RunRepository) Create(ctx context.Context, run *domain.Run) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (id, experiment, grp, dir, tag, status, started_at, finished_at, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Experiment, run.Group, run.Dir, run.Tag,
		string(run.Status), run.StartedAt.UTC().Format(time.RFC3339), formatTime(run.FinishedAt), run.Error)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// Finish updates the terminal status of a run.
func (r *RunRepository) Finish(ctx context.Context, run *domain.Run) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, finished_at = ?, error = ? WHERE id = ?
	`, string(run.Status), formatTime(run.FinishedAt), run.Error, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// ListFilter narrows List results. Zero values mean no filtering.
type ListFilter struct {
	Experiment string
	Group      string
	Limit      int
}

// List returns runs ordered by start time, newest first.
func (r *RunRepository) List(ctx context.Context, filter ListFilter) ([]*domain.Run, error) {
	query := `SELECT id, experiment, grp, dir, tag, status, started_at, finished_at, error FROM runs`
	var conds []string
	var args []any
	if filter.Experiment != "" {
		conds = append(conds, "experiment = ?")
		args = append(args, filter.Experiment)
	}
	if filter.Group != "" {
		conds = append(conds, "grp = ?")
		args = append(args, filter.Group)
	}
	for i, c := range conds {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}
	query += " ORDER BY started_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID, or an ID prefix of at least
// eight characters.
func (r *RunRepository) Get(ctx context.Context, ref string) (*domain.Run, error) {
	query := `SELECT id, experiment, grp, dir, tag, status, started_at, finished_at, error FROM runs WHERE id = ?`
	arg := ref
	if len(ref) >= 8 && len(ref) < 32 {
		query = `SELECT id, experiment, grp, dir, tag, status, started_at, finished_at, error FROM runs WHERE id LIKE ?`
		arg = ref + "%"
	}
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query run: %w", err)
	}
	defer rows.Close()

	var matches []*domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %s not found", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run reference %s is ambiguous (%d matches)", ref, len(matches))
	}
}

// Delete removes a run record. The results directory is left in place.
func (r *RunRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s not found", id)
	}
	return nil
}

func scanRun(rows *sql.Rows) (*domain.Run, error) {
	var run domain.Run
	var status, startedAt string
	var finishedAt sql.NullString
	if err := rows.Scan(&run.ID, &run.Experiment, &run.Group, &run.Dir, &run.Tag,
		&status, &startedAt, &finishedAt, &run.Error); err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Status = domain.RunStatus(status)
	t, err := time.Parse(time.RFC3339, startedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse started_at: %w", err)
	}
	run.StartedAt = t
	if finishedAt.Valid {
		ft, err := time.Parse(time.RFC3339, finishedAt.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse finished_at: %w", err)
		}
		run.FinishedAt = &ft
	}
	return &run, nil
}

func formatTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
