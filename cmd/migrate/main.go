package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"deepedu/db"
	"deepedu/internal/config"
	"deepedu/internal/logging"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
)

func main() {
	config.LoadEnvFiles()
	logging.Init(logging.Config{Level: os.Getenv("LOG_LEVEL"), Format: "console", Output: os.Stderr})

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		logging.Fatal().Err(err).Msg("migrate failed")
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the DeepEdu database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				if err := goose.UpContext(ctx, sqlDB, db.MigrationsDir); err != nil {
					return fmt.Errorf("run migrations: %w", err)
				}
				logging.Info().Msg("migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				if err := goose.DownContext(ctx, sqlDB, db.MigrationsDir); err != nil {
					return fmt.Errorf("roll back migration: %w", err)
				}
				logging.Info().Msg("migration rolled back")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show applied and pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDB(func(ctx context.Context, sqlDB *sql.DB) error {
				return goose.StatusContext(ctx, sqlDB, db.MigrationsDir)
			}),
		},
		&cobra.Command{
			Use:   "create <name>",
			Short: "Create a new SQL migration file",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				goose.SetBaseFS(nil)
				dir := migrationsDir()
				if err := goose.Create(nil, dir, args[0], "sql"); err != nil {
					return fmt.Errorf("create migration: %w", err)
				}
				logging.Info().Str("dir", dir).Str("name", args[0]).Msg("migration created")
				return nil
			},
		},
	)
	return root
}

// withDB opens the database, points goose at the embedded migrations and
// runs fn.
func withDB(fn func(ctx context.Context, sqlDB *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		pool, err := pgxpool.New(ctx, databaseDSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		sqlDB := stdlib.OpenDBFromPool(pool)
		defer sqlDB.Close()

		goose.SetBaseFS(db.Migrations)
		if err := goose.SetDialect("postgres"); err != nil {
			return err
		}
		return fn(ctx, sqlDB)
	}
}
