package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redweb/donor-registry/config"
	"github.com/redweb/donor-registry/internal/log"
	"github.com/redweb/donor-registry/pkg/migrations"
	"github.com/redweb/donor-registry/pkg/utils"
	"github.com/spf13/cobra"
)

const migrationTimeout = 5 * time.Minute

var errDownNotConfirmed = errors.New("migrate down drops the register table; rerun with --force to confirm")

type migrationStep func(ctx context.Context, db *sql.DB, cfg migrations.Config) error

var openDatabase = func(logger *log.Logger) (*sql.DB, error) {
	db, err := config.NewDatabase(logger, config.DefaultDBConfig())
	if err != nil {
		return nil, err
	}
	return db.DB()
}

func newMigrateCmd(logger *log.Logger) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations (same as 'migrate up')",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), logger, dir, migrations.Up)
		},
	}

	cmd.PersistentFlags().StringVar(&dir, "dir", "", "migrations directory (default $MIGRATIONS_DIR or ./migrations)")

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(cmd.Context(), logger, dir, migrations.Up)
		},
	})

	var force bool
	down := &cobra.Command{
		Use:   "down",
		Short: "Revert every applied SQL migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return errDownNotConfirmed
			}
			return runMigration(cmd.Context(), logger, dir, migrations.Down)
		},
	}
	down.Flags().BoolVar(&force, "force", false, "confirm reverting all migrations")
	cmd.AddCommand(down)

	return cmd
}

func runMigration(ctx context.Context, logger *log.Logger, dir string, step migrationStep) error {
	if dir == "" {
		dir = utils.GetEnvTrimmedOrDefault("MIGRATIONS_DIR", "migrations")
	}

	sqlDB, err := openDatabase(logger)
	if err != nil {
		return fmt.Errorf("connect to database for migration: %w", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close SQL DB after migration", "error", err.Error())
		}
	}()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, migrationTimeout)
	defer cancel()

	if err := step(ctx, sqlDB, migrations.Config{Dir: dir, Logger: logger}); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	logger.Info("Database migrations completed", "dir", dir)
	return nil
}
