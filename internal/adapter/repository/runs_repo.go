package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"resume-builder/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunsRepo persists generation runs in the generation_runs table.
type RunsRepo struct {
	pool *pgxpool.Pool
}

func NewRunsRepo(pool *pgxpool.Pool) *RunsRepo {
	return &RunsRepo{pool: pool}
}

func (r *RunsRepo) Save(ctx context.Context, run *domain.GenerationRun) error {
	if r.pool == nil {
		return nil
	}

	metaB, err := json.Marshal(run.Metadata)
	if err != nil {
		return fmt.Errorf("marshal run metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `INSERT INTO generation_runs (id, candidate_name, template_requested, template_used, strategy, resume_path, cover_letter_path, cover_letter_status, repair_count, error, metadata, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (id) DO UPDATE SET candidate_name = EXCLUDED.candidate_name, template_used = EXCLUDED.template_used, strategy = EXCLUDED.strategy, resume_path = EXCLUDED.resume_path, cover_letter_path = EXCLUDED.cover_letter_path, cover_letter_status = EXCLUDED.cover_letter_status, repair_count = EXCLUDED.repair_count, error = EXCLUDED.error, metadata = EXCLUDED.metadata, updated_at = EXCLUDED.updated_at`,
		run.ID, run.CandidateName, run.TemplateRequested, run.TemplateUsed, run.Strategy, run.ResumePath, run.CoverLetterPath, run.CoverLetterStatus, run.RepairCount, run.Error, metaB, run.CreatedAt, run.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert generation run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first.
func (r *RunsRepo) ListRecent(ctx context.Context, limit int) ([]domain.GenerationRun, error) {
	if r.pool == nil {
		return []domain.GenerationRun{}, nil
	}

	var runs []domain.GenerationRun
	err := queryJSON(ctx, r.pool, &runs,
		`SELECT coalesce(json_agg(row_to_json(g) ORDER BY g.created_at DESC), '[]')
		FROM (SELECT * FROM generation_runs ORDER BY created_at DESC LIMIT $1) g`, limit)
	if err != nil {
		return nil, fmt.Errorf("list generation runs: %w", err)
	}
	if runs == nil {
		runs = []domain.GenerationRun{}
	}
	return runs, nil
}

// queryJSON runs a SQL statement that returns a single json value and
// unmarshals it into out.
func queryJSON(ctx context.Context, pool *pgxpool.Pool, out interface{}, sql string, args ...interface{}) error {
	var raw []byte
	if err := pool.QueryRow(ctx, sql, args...).Scan(&raw); err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
