package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range migrations() {
		if err := m.Up(ctx, pool); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	Up   func(ctx context.Context, pool *pgxpool.Pool) error
}

func migrations() []Migration {
	return []Migration{
		{Name: "create_generation_runs", Up: execStatement(createGenerationRuns)},
		{Name: "index_generation_runs_created_at", Up: execStatement(indexGenerationRunsCreatedAt)},
	}
}

const createGenerationRuns = `
	CREATE TABLE IF NOT EXISTS generation_runs (
		id UUID PRIMARY KEY,
		candidate_name TEXT NOT NULL DEFAULT '',
		template_requested INTEGER NOT NULL DEFAULT 1,
		template_used INTEGER NOT NULL DEFAULT 1,
		strategy INTEGER NOT NULL DEFAULT 1,
		resume_path TEXT NOT NULL DEFAULT '',
		cover_letter_path TEXT NOT NULL DEFAULT '',
		cover_letter_status TEXT NOT NULL DEFAULT '',
		repair_count INTEGER NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT '',
		metadata JSONB DEFAULT '{}'::jsonb,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
`

const indexGenerationRunsCreatedAt = `
	CREATE INDEX IF NOT EXISTS idx_generation_runs_created_at
	ON generation_runs (created_at DESC);
`

func execStatement(query string) func(ctx context.Context, pool *pgxpool.Pool) error {
	return func(ctx context.Context, pool *pgxpool.Pool) error {
		_, err := pool.Exec(ctx, query)
		return err
	}
}
