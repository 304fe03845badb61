package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"quiz-room-service/internal/config"
	pgmigrations "quiz-room-service/internal/infra/postgres/migrations"
	"quiz-room-service/internal/logging"
)

// NewMigrateCmd applies (or with --rollback reverts) the quiz catalog schema.
func NewMigrateCmd(flags *rootFlags) *cobra.Command {
	var rollback bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(flags.configPath)
			if err != nil {
				return err
			}
			log := logging.New(cmd.ErrOrStderr(), flags.verbose)
			if rollback {
				return rollbackMigrations(cmd.Context(), cfg, log)
			}
			return runMigrations(cmd.Context(), cfg, log)
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the last migration group")
	return cmd
}

func withMigrator(ctx context.Context, cfg config.Config, fn func(*migrate.Migrator) error) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return err
	}
	return fn(migrator)
}

func runMigrations(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	return withMigrator(ctx, cfg, func(m *migrate.Migrator) error {
		group, err := m.Migrate(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			log.Info().Msg("no new migrations")
			return nil
		}
		log.Info().Str("group", group.String()).Msg("migrations applied")
		return nil
	})
}

func rollbackMigrations(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	return withMigrator(ctx, cfg, func(m *migrate.Migrator) error {
		group, err := m.Rollback(ctx)
		if err != nil {
			return err
		}
		if group.IsZero() {
			log.Info().Msg("nothing to roll back")
			return nil
		}
		log.Info().Str("group", group.String()).Msg("migrations rolled back")
		return nil
	})
}
