package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gbarbieri/equisuite/internal/migrate"
	"github.com/gbarbieri/equisuite/internal/registry"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the run registry schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down <target-version>",
	Short: "Roll back migrations to a target version",
	Args:  cobra.ExactArgs(1),
	RunE:  runMigrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current schema version",
	RunE:  runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, _, err := openStore()
	if err != nil {
		return err
	}
	db, err := registry.OpenRaw(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := registry.Migrate(ctx, db); err != nil {
		return err
	}
	version, _, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	fmt.Printf("Schema at version %d\n", version)
	return nil
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	target, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid target version %q", args[0])
	}
	cfg, _, err := openStore()
	if err != nil {
		return err
	}
	db, err := registry.OpenRaw(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return err
	}
	version, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	if dirty {
		return fmt.Errorf("database is dirty at version %d, manual intervention required", version)
	}
	all, err := migrate.Load()
	if err != nil {
		return err
	}
	if err := migrate.DownTo(ctx, db, all, version, target); err != nil {
		return err
	}
	fmt.Printf("Schema rolled back to version %d\n", target)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, _, err := openStore()
	if err != nil {
		return err
	}
	db, err := registry.OpenRaw(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return err
	}
	version, dirty, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	fmt.Printf("Schema at version %d (%s)\n", version, state)
	return nil
}
