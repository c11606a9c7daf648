package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"marketing_engine/internal/domain"
)

const postColumns = `id, run_id, brief_id, stream, platform, content, edited_content, media_urls,
	cta_url, hashtags, subreddit, scheduled_time, approval_status, rejection_reason,
	publish_status, retry_count, post_url, platform_post_id, publish_error, metrics,
	claimed_at, published_at, created_at, updated_at`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type postRow struct {
	ID              string         `db:"id"`
	RunID           *string        `db:"run_id"`
	BriefID         string         `db:"brief_id"`
	Stream          string         `db:"stream"`
	Platform        string         `db:"platform"`
	Content         string         `db:"content"`
	EditedContent   *string        `db:"edited_content"`
	MediaURLs       pq.StringArray `db:"media_urls"`
	CTAURL          string         `db:"cta_url"`
	Hashtags        pq.StringArray `db:"hashtags"`
	Subreddit       *string        `db:"subreddit"`
	ScheduledTime   time.Time      `db:"scheduled_time"`
	ApprovalStatus  string         `db:"approval_status"`
	RejectionReason *string        `db:"rejection_reason"`
	PublishStatus   string         `db:"publish_status"`
	RetryCount      int            `db:"retry_count"`
	PostURL         *string        `db:"post_url"`
	PlatformPostID  *string        `db:"platform_post_id"`
	PublishError    *string        `db:"publish_error"`
	Metrics         []byte         `db:"metrics"`
	ClaimedAt       *time.Time     `db:"claimed_at"`
	PublishedAt     *time.Time     `db:"published_at"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r *postRow) toDomain() (domain.PostDraft, error) {
	post := domain.PostDraft{
		ID:              r.ID,
		BriefID:         r.BriefID,
		Stream:          domain.Stream(r.Stream),
		Platform:        domain.Platform(r.Platform),
		Content:         r.Content,
		EditedContent:   r.EditedContent,
		MediaURLs:       []string(r.MediaURLs),
		CTAURL:          r.CTAURL,
		Hashtags:        []string(r.Hashtags),
		Subreddit:       r.Subreddit,
		ScheduledTime:   r.ScheduledTime,
		ApprovalStatus:  domain.ApprovalStatus(r.ApprovalStatus),
		RejectionReason: r.RejectionReason,
		PublishStatus:   domain.PublishStatus(r.PublishStatus),
		RetryCount:      r.RetryCount,
		PostURL:         r.PostURL,
		PlatformPostID:  r.PlatformPostID,
		PublishError:    r.PublishError,
		ClaimedAt:       r.ClaimedAt,
		PublishedAt:     r.PublishedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.RunID != nil {
		post.RunID = *r.RunID
	}
	if len(r.Metrics) > 0 {
		if err := json.Unmarshal(r.Metrics, &post.Metrics); err != nil {
			return post, fmt.Errorf("decode metrics of post %s: %w", r.ID, err)
		}
	}
	return post, nil
}

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

func (s *PostStore) Create(ctx context.Context, posts []domain.PostDraft) error {
	if len(posts) == 0 {
		return nil
	}

	query := psql.Insert("posts").Columns(
		"id", "run_id", "brief_id", "stream", "platform", "content", "edited_content",
		"media_urls", "cta_url", "hashtags", "subreddit", "scheduled_time",
		"approval_status", "publish_status", "retry_count", "created_at", "updated_at",
	)
	for _, p := range posts {
		var runID *string
		if p.RunID != "" {
			runID = &p.RunID
		}
		query = query.Values(
			p.ID, runID, p.BriefID, string(p.Stream), string(p.Platform), p.Content, p.EditedContent,
			pq.StringArray(nonNil(p.MediaURLs)), p.CTAURL, pq.StringArray(nonNil(p.Hashtags)), p.Subreddit,
			p.ScheduledTime, string(p.ApprovalStatus), string(p.PublishStatus), p.RetryCount,
			p.CreatedAt, p.UpdatedAt,
		)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	_, err = GetExecutor(ctx, s.db).ExecContext(ctx, sqlStr, args...)
	return err
}

func (s *PostStore) Get(ctx context.Context, id string) (*domain.PostDraft, error) {
	var row postRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	post, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostStore) List(ctx context.Context, filter domain.PostFilter) ([]domain.PostDraft, error) {
	query := psql.Select(postColumns).From("posts").OrderBy("scheduled_time", "platform", "id")

	if filter.WeekOf != nil {
		start := domain.WeekStart(*filter.WeekOf)
		query = query.Where(sq.And{
			sq.GtOrEq{"scheduled_time": start},
			sq.Lt{"scheduled_time": start.AddDate(0, 0, 7)},
		})
	}
	if filter.ApprovalStatus != nil {
		query = query.Where(sq.Eq{"approval_status": string(*filter.ApprovalStatus)})
	}
	if filter.PublishStatus != nil {
		query = query.Where(sq.Eq{"publish_status": string(*filter.PublishStatus)})
	}
	if filter.Platform != nil {
		query = query.Where(sq.Eq{"platform": string(*filter.Platform)})
	}
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return s.selectPosts(ctx, sqlStr, args...)
}

// ListDue returns approved posts whose time has come and that a scheduler may still claim.
func (s *PostStore) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PostDraft, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE approval_status IN ('approved', 'edited')
		  AND scheduled_time <= $1
		  AND (
		        (publish_status = 'not_published' AND retry_count = 0)
		     OR (publish_status = 'failed_retry' AND retry_count <= $2)
		  )
		ORDER BY scheduled_time, id
		LIMIT $3`

	return s.selectPosts(ctx, query, now, domain.MaxPublishRetries, limit)
}

func (s *PostStore) selectPosts(ctx context.Context, query string, args ...interface{}) ([]domain.PostDraft, error) {
	var rows []postRow
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, query, args...); err != nil {
		return nil, err
	}

	posts := make([]domain.PostDraft, 0, len(rows))
	for i := range rows {
		post, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ApplyApproval writes a review decision. It fails with ErrConcurrentUpdate when the post
// left the expected approval status or entered publishing in the meantime.
func (s *PostStore) ApplyApproval(ctx context.Context, change domain.ApprovalChange) error {
	query := psql.Update("posts").
		Set("approval_status", string(change.To)).
		Set("updated_at", change.At).
		Where(sq.Eq{"id": change.PostID, "approval_status": string(change.From)}).
		Where(sq.NotEq{"publish_status": []string{
			string(domain.PublishStatusPublishing),
			string(domain.PublishStatusPublished),
		}})

	if change.EditedContent != nil {
		query = query.Set("edited_content", *change.EditedContent)
	}
	if change.RejectionReason != nil {
		query = query.Set("rejection_reason", *change.RejectionReason)
	}
	if change.ScheduledTime != nil {
		query = query.Set("scheduled_time", *change.ScheduledTime)
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	return expectOne(GetExecutor(ctx, s.db).ExecContext(ctx, sqlStr, args...))(change.PostID)
}

// Claim moves a post into publishing only if nobody else did first and, for a non-zero dueBy,
// it is still scheduled at or before dueBy. The boolean reports whether this caller won.
func (s *PostStore) Claim(ctx context.Context, id string, from domain.PublishStatus, retryCount int, dueBy, at time.Time) (bool, error) {
	query := `
		UPDATE posts
		SET publish_status = 'publishing', claimed_at = $4, updated_at = $4
		WHERE id = $1
		  AND publish_status = $2
		  AND retry_count = $3
		  AND approval_status IN ('approved', 'edited')
		  AND ($5::timestamptz IS NULL OR scheduled_time <= $5)`

	var due *time.Time
	if !dueBy.IsZero() {
		due = &dueBy
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, id, string(from), retryCount, at, due)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Finish records the outcome of a claimed post. Posts that are no longer in publishing are left alone.
func (s *PostStore) Finish(ctx context.Context, outcome domain.PublishOutcome) error {
	query := `
		UPDATE posts
		SET publish_status = $2,
		    retry_count = $3,
		    platform_post_id = COALESCE($4, platform_post_id),
		    post_url = COALESCE($5, post_url),
		    publish_error = $6,
		    published_at = CASE WHEN $2 = 'published' THEN $7::timestamptz ELSE published_at END,
		    claimed_at = NULL,
		    updated_at = $7
		WHERE id = $1 AND publish_status = 'publishing'`

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query,
		outcome.PostID,
		string(outcome.Status),
		outcome.RetryCount,
		outcome.PlatformPostID,
		outcome.PostURL,
		outcome.Error,
		outcome.At,
	)
	return expectOne(res, err)(outcome.PostID)
}

// RecoverStale flags posts whose claim is older than claimedBefore. A crashed publisher leaves
// them in publishing forever otherwise; whether the platform received them is unknown, so they
// go to review instead of back into the queue.
func (s *PostStore) RecoverStale(ctx context.Context, claimedBefore, at time.Time) ([]string, error) {
	query := `
		UPDATE posts
		SET publish_status = 'flagged_for_review',
		    publish_error = 'publish claim expired before an outcome was recorded',
		    claimed_at = NULL,
		    updated_at = $2
		WHERE publish_status = 'publishing' AND claimed_at < $1
		RETURNING id`

	var ids []string
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &ids, query, claimedBefore, at); err != nil {
		return nil, err
	}
	return ids, nil
}

// RecordMetrics stores engagement numbers for a published post.
func (s *PostStore) RecordMetrics(ctx context.Context, id string, metrics map[string]int64, at time.Time) error {
	payload, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE posts SET metrics = $2, updated_at = $3 WHERE id = $1 AND publish_status = 'published'`,
		id, string(payload), at,
	)
	if err := expectOne(res, err)(id); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return fmt.Errorf("post %s has not been published: %w", id, domain.ErrNotPublishable)
		}
		return err
	}
	return nil
}

func (s *PostStore) CountByApproval(ctx context.Context, weekOf *time.Time) (map[domain.ApprovalStatus]int, error) {
	counts, err := s.countBy(ctx, "approval_status", weekOf)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.ApprovalStatus]int, len(counts))
	for k, v := range counts {
		out[domain.ApprovalStatus(k)] = v
	}
	return out, nil
}

func (s *PostStore) CountByPublish(ctx context.Context, weekOf *time.Time) (map[domain.PublishStatus]int, error) {
	counts, err := s.countBy(ctx, "publish_status", weekOf)
	if err != nil {
		return nil, err
	}
	out := make(map[domain.PublishStatus]int, len(counts))
	for k, v := range counts {
		out[domain.PublishStatus(k)] = v
	}
	return out, nil
}

func (s *PostStore) countBy(ctx context.Context, column string, weekOf *time.Time) (map[string]int, error) {
	query := psql.Select(column+" AS status", "COUNT(*) AS total").From("posts").GroupBy(column)
	if weekOf != nil {
		start := domain.WeekStart(*weekOf)
		query = query.Where(sq.And{
			sq.GtOrEq{"scheduled_time": start},
			sq.Lt{"scheduled_time": start.AddDate(0, 0, 7)},
		})
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build count: %w", err)
	}

	var rows []struct {
		Status string `db:"status"`
		Total  int    `db:"total"`
	}
	if err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows, sqlStr, args...); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}

// expectOne turns an exec result into ErrConcurrentUpdate unless exactly one row changed.
func expectOne(res sql.Result, err error) func(id string) error {
	return func(id string) error {
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n != 1 {
			return fmt.Errorf("post %s: %w", id, domain.ErrConcurrentUpdate)
		}
		return nil
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
