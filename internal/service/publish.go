package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
	"marketing_engine/internal/license"
)

// errDeferred marks a post left untouched because its platform had no turn left in this pass.
var errDeferred = errors.New("publish deferred")

// PublishService delivers due posts. A post is only sent after this process won the
// conditional claim on it, and its outcome is written together with the publish log entry.
type PublishService struct {
	posts      PostStore
	publishLog PublishLogStore
	txManager  TransactionManager
	publishers PublisherRegistry
	events     EventPublisher
	license    LicenseChecker
	metrics    PublishMetrics
	logger     *slog.Logger
	config     config.PublishConfig

	now   func() time.Time
	newID func() string
}

func NewPublishService(
	posts PostStore,
	publishLog PublishLogStore,
	txManager TransactionManager,
	publishers PublisherRegistry,
	events EventPublisher,
	gate LicenseChecker,
	metrics PublishMetrics,
	logger *slog.Logger,
	cfg config.PublishConfig,
) *PublishService {
	return &PublishService{
		posts:      posts,
		publishLog: publishLog,
		txManager:  txManager,
		publishers: publishers,
		events:     events,
		license:    gate,
		metrics:    metrics,
		logger:     logger.With("component", "publish", "dry_run", publishers.DryRun()),
		config:     cfg,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

func (s *PublishService) authorize() error {
	if s.publishers.DryRun() || s.license == nil {
		return nil
	}
	return s.license.Require(license.FeaturePublish)
}

// RunOnce makes one scheduler pass over the posts due at now. Failures of single posts are
// counted in the stats and never stop the pass.
func (s *PublishService) RunOnce(ctx context.Context, now time.Time) (*domain.PublishStats, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}

	startTime := s.now()
	stats := &domain.PublishStats{}

	if s.config.StaleClaimAfter > 0 {
		ids, err := s.posts.RecoverStale(ctx, now.Add(-s.config.StaleClaimAfter), now)
		if err != nil {
			s.logger.Error("failed to recover stale claims", "error", err)
		} else if len(ids) > 0 {
			stats.Recovered = len(ids)
			s.logger.Warn("flagged posts with expired claims", "post_ids", ids)
		}
		if s.metrics != nil {
			s.metrics.RecordStaleRecovered(stats.Recovered)
		}
	}

	due, err := s.posts.ListDue(ctx, now, s.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("list due posts: %w", err)
	}
	stats.Due = len(due)
	s.logger.Info("starting publish pass", "due", len(due))

	for i := range due {
		if err := ctx.Err(); err != nil {
			s.logger.Warn("publish pass interrupted", "remaining", len(due)-i)
			return s.finishPass(stats, startTime), err
		}

		post := &due[i]
		result, claimed, err := s.publishPost(ctx, post, now)
		switch {
		case errors.Is(err, errDeferred):
			stats.Deferred++
			s.logger.Info("post deferred to a later pass", "post_id", post.ID, "platform", post.Platform, "error", err)
			continue
		case err != nil:
			stats.Errors++
			s.logger.Error("failed to publish post", "post_id", post.ID, "platform", post.Platform, "error", err)
			continue
		case !claimed:
			stats.Skipped++
			continue
		}

		stats.Claimed++
		stats.Results = append(stats.Results, *result.entry)
		switch result.status {
		case domain.PublishStatusPublished:
			stats.Published++
		case domain.PublishStatusFailedRetry:
			stats.Retrying++
		case domain.PublishStatusFlaggedForReview:
			stats.Flagged++
		}
	}

	s.finishPass(stats, startTime)

	s.logger.Info("publish pass completed",
		"due", stats.Due,
		"claimed", stats.Claimed,
		"skipped", stats.Skipped,
		"published", stats.Published,
		"retrying", stats.Retrying,
		"flagged", stats.Flagged,
		"recovered", stats.Recovered,
		"deferred", stats.Deferred,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)

	return stats, nil
}

func (s *PublishService) finishPass(stats *domain.PublishStats, startTime time.Time) *domain.PublishStats {
	stats.Duration = s.now().Sub(startTime)
	if s.metrics != nil {
		s.metrics.RecordPublishPass(stats.Duration)
	}
	return stats
}

// PublishOne publishes a single approved post regardless of its scheduled time.
func (s *PublishService) PublishOne(ctx context.Context, id string) (*domain.PublishResult, error) {
	if err := s.authorize(); err != nil {
		return nil, err
	}

	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	if !post.CanClaim() {
		return nil, fmt.Errorf("post %s (approval=%s, publish=%s, retries=%d): %w",
			id, post.ApprovalStatus, post.PublishStatus, post.RetryCount, domain.ErrNotPublishable)
	}

	result, claimed, err := s.publishPost(ctx, post, time.Time{})
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, fmt.Errorf("post %s was claimed by another publisher: %w", id, domain.ErrConcurrentUpdate)
	}
	return result.entry, nil
}

type postOutcome struct {
	status domain.PublishStatus
	entry  *domain.PublishResult
}

// publishPost waits for the platform's turn, then claims, sends and records one post. claimed
// is false when another runner got there first, in which case nothing was sent. A post whose
// turn does not come before ctx ends is returned with errDeferred and stays as it was. A zero
// dueBy claims regardless of the scheduled time.
func (s *PublishService) publishPost(ctx context.Context, post *domain.PostDraft, dueBy time.Time) (*postOutcome, bool, error) {
	logger := s.logger.With("post_id", post.ID, "platform", post.Platform)

	if err := s.publishers.Wait(ctx, post.Platform); err != nil {
		return nil, false, fmt.Errorf("%w: %w", errDeferred, err)
	}

	won, err := s.posts.Claim(ctx, post.ID, post.PublishStatus, post.RetryCount, dueBy, s.now())
	if err != nil {
		return nil, false, fmt.Errorf("claim: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordClaim(won)
	}
	if !won {
		logger.Debug("post already claimed, skipping")
		return nil, false, nil
	}

	receipt, publishErr := s.publishers.Publish(ctx, domain.NewPublishRequest(post))

	at := s.now()
	outcome := decideOutcome(post, receipt, publishErr, at)
	entry := &domain.PublishResult{
		ID:             s.newID(),
		PostID:         post.ID,
		Platform:       post.Platform,
		Status:         domain.PublishLogPublished,
		PlatformPostID: outcome.PlatformPostID,
		PostURL:        outcome.PostURL,
		Error:          outcome.Error,
		PublishedAt:    at,
	}
	if outcome.Status != domain.PublishStatusPublished {
		entry.Status = domain.PublishLogFailed
	}

	// the platform call already happened; the outcome must be stored even if ctx expired meanwhile
	writeCtx := context.WithoutCancel(ctx)
	err = s.txManager.WithTransaction(writeCtx, func(txCtx context.Context) error {
		if err := s.posts.Finish(txCtx, outcome); err != nil {
			return fmt.Errorf("record outcome: %w", err)
		}
		if err := s.publishLog.Append(txCtx, entry); err != nil {
			return fmt.Errorf("append publish log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, true, err
	}

	if s.metrics != nil {
		s.metrics.RecordPublishOutcome(post.Platform, outcome.Status)
	}

	switch outcome.Status {
	case domain.PublishStatusPublished:
		logger.Info("post published", "post_url", deref(outcome.PostURL), "retry_count", outcome.RetryCount)
	case domain.PublishStatusFailedRetry:
		logger.Warn("transient publish failure, will retry", "error", publishErr)
	default:
		logger.Error("post flagged for review", "error", publishErr, "retry_count", outcome.RetryCount)
	}

	if s.events != nil {
		if err := s.events.PublishOutcome(writeCtx, entry, outcome.Status); err != nil {
			logger.Warn("failed to emit publish outcome", "error", err)
		}
	}

	return &postOutcome{status: outcome.Status, entry: entry}, true, nil
}

// decideOutcome applies the retry policy: one retry after a transient failure, then review.
// Fatal and unclassified failures go to review straight away.
func decideOutcome(post *domain.PostDraft, receipt *domain.PublishReceipt, publishErr error, at time.Time) domain.PublishOutcome {
	outcome := domain.PublishOutcome{
		PostID:     post.ID,
		RetryCount: post.RetryCount,
		At:         at,
	}

	if publishErr == nil && receipt != nil {
		outcome.Status = domain.PublishStatusPublished
		outcome.PlatformPostID = nonEmpty(receipt.PlatformPostID)
		outcome.PostURL = nonEmpty(receipt.PostURL)
		return outcome
	}

	if publishErr == nil {
		publishErr = fmt.Errorf("%s publisher returned no receipt: %w", post.Platform, domain.ErrPublishFatal)
	}
	msg := publishErr.Error()
	outcome.Error = &msg

	if domain.IsTransientPublish(publishErr) && post.RetryCount < domain.MaxPublishRetries {
		outcome.Status = domain.PublishStatusFailedRetry
		outcome.RetryCount = post.RetryCount + 1
		return outcome
	}

	outcome.Status = domain.PublishStatusFlaggedForReview
	return outcome
}

// History returns the newest publish log entries.
func (s *PublishService) History(ctx context.Context, limit int) ([]domain.PublishResult, error) {
	entries, err := s.publishLog.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent publish log: %w", err)
	}
	return entries, nil
}

func (s *PublishService) Attempts(ctx context.Context, postID string) ([]domain.PublishResult, error) {
	entries, err := s.publishLog.ForPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("publish log for %s: %w", postID, err)
	}
	return entries, nil
}

// RecordMetrics backfills engagement numbers on a published post.
func (s *PublishService) RecordMetrics(ctx context.Context, postID string, values map[string]int64) error {
	if s.license != nil {
		if err := s.license.Require(license.FeatureAnalytics); err != nil {
			return err
		}
	}
	if err := s.posts.RecordMetrics(ctx, postID, values, s.now()); err != nil {
		return fmt.Errorf("record metrics for %s: %w", postID, err)
	}
	return nil
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
