package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"wiki-quiz-engine/internal/config"
	pgmigrations "wiki-quiz-engine/internal/infra/postgres/migrations"
)

// NewMigrateCmd creates the quizzes schema in a scratch database, for local
// runs of the postgres history source. The generation service owns the
// production schema.
func NewMigrateCmd(configPath *string) *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the quizzes schema in a local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			return runMigrations(cmd.Context(), cfg, log, seed)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the sample quizzes after migrating")
	return cmd
}

func runMigrations(ctx context.Context, cfg config.Config, log *zap.Logger, seed bool) error {
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
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	log.Info("migrations applied", zap.Int64("group", group.ID), zap.Int("count", len(group.Migrations)))

	if !seed {
		return nil
	}
	records := sampleRecords()
	for _, r := range records {
		ids, err := pgmigrations.Seed(ctx, db, r.DateGenerated.Time, r.QuizData)
		if err != nil {
			return err
		}
		log.Info("seeded quiz", zap.String("title", r.Title), zap.Int64s("ids", ids))
	}
	return nil
}
