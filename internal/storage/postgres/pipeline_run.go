package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"marketing_engine/internal/domain"
)

type PipelineRunStore struct {
	db *sqlx.DB
}

func NewPipelineRunStore(db *sqlx.DB) *PipelineRunStore {
	return &PipelineRunStore{db: db}
}

func (s *PipelineRunStore) Create(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		INSERT INTO pipeline_runs (
			id, week_of, stage, status, error, briefs_count, drafts_count, posts_count,
			started_at, completed_at
		) VALUES (
			:id, :week_of, :stage, :status, :error, :briefs_count, :drafts_count, :posts_count,
			:started_at, :completed_at
		)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, run)
	return err
}

func (s *PipelineRunStore) Update(ctx context.Context, run *domain.PipelineRun) error {
	query := `
		UPDATE pipeline_runs SET
			stage = :stage,
			status = :status,
			error = :error,
			briefs_count = :briefs_count,
			drafts_count = :drafts_count,
			posts_count = :posts_count,
			completed_at = :completed_at
		WHERE id = :id`

	res, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, run)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pipeline run %s: %w", run.ID, domain.ErrNotFound)
	}
	return nil
}

func (s *PipelineRunStore) Get(ctx context.Context, id string) (*domain.PipelineRun, error) {
	var run domain.PipelineRun
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &run, `
		SELECT id, week_of, stage, status, error, briefs_count, drafts_count, posts_count,
		       started_at, completed_at
		FROM pipeline_runs
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("pipeline run %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Recent returns the newest runs first.
func (s *PipelineRunStore) Recent(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	var runs []domain.PipelineRun
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &runs, `
		SELECT id, week_of, stage, status, error, briefs_count, drafts_count, posts_count,
		       started_at, completed_at
		FROM pipeline_runs
		ORDER BY started_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return runs, nil
}
