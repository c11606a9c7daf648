package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"marketing_engine/internal/domain"
)

// PublishLogStore is append-only: entries are never updated or deleted.
type PublishLogStore struct {
	db *sqlx.DB
}

func NewPublishLogStore(db *sqlx.DB) *PublishLogStore {
	return &PublishLogStore{db: db}
}

func (s *PublishLogStore) Append(ctx context.Context, entry *domain.PublishResult) error {
	query := `
		INSERT INTO publish_log (
			id, post_id, platform, status, platform_post_id, post_url, error, published_at
		) VALUES (
			:id, :post_id, :platform, :status, :platform_post_id, :post_url, :error, :published_at
		)`

	_, err := sqlx.NamedExecContext(ctx, GetExecutor(ctx, s.db), query, entry)
	return err
}

func (s *PublishLogStore) Recent(ctx context.Context, limit int) ([]domain.PublishResult, error) {
	var entries []domain.PublishResult
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &entries, `
		SELECT id, post_id, platform, status, platform_post_id, post_url, error, published_at
		FROM publish_log
		ORDER BY published_at DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *PublishLogStore) ForPost(ctx context.Context, postID string) ([]domain.PublishResult, error) {
	var entries []domain.PublishResult
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &entries, `
		SELECT id, post_id, platform, status, platform_post_id, post_url, error, published_at
		FROM publish_log
		WHERE post_id = $1
		ORDER BY published_at, id`, postID)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
