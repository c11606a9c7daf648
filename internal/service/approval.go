package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"marketing_engine/internal/domain"
)

// ApprovalService applies human review decisions. Every decision is checked against the
// transition graph and written with a conditional update, so a rejected request leaves the
// stored post untouched.
type ApprovalService struct {
	posts     PostStore
	txManager TransactionManager
	logger    *slog.Logger
	now       func() time.Time
}

func NewApprovalService(posts PostStore, txManager TransactionManager, logger *slog.Logger) *ApprovalService {
	return &ApprovalService{
		posts:     posts,
		txManager: txManager,
		logger:    logger.With("component", "approval"),
		now:       time.Now,
	}
}

func (s *ApprovalService) Approve(ctx context.Context, id string) (*domain.PostDraft, error) {
	return s.apply(ctx, id, domain.ActionApprove, nil)
}

// Edit replaces the publishable text. The generated content is kept alongside it.
func (s *ApprovalService) Edit(ctx context.Context, id, content string) (*domain.PostDraft, error) {
	if strings.TrimSpace(content) == "" {
		return nil, domain.ErrEmptyContent
	}
	return s.apply(ctx, id, domain.ActionEdit, func(change *domain.ApprovalChange) {
		change.EditedContent = &content
	})
}

// Reject accepts an empty reason; nothing is stored for it then.
func (s *ApprovalService) Reject(ctx context.Context, id, reason string) (*domain.PostDraft, error) {
	reason = strings.TrimSpace(reason)
	return s.apply(ctx, id, domain.ActionReject, func(change *domain.ApprovalChange) {
		if reason != "" {
			change.RejectionReason = &reason
		}
	})
}

// Reschedule moves a post to a new time without touching its approval status.
func (s *ApprovalService) Reschedule(ctx context.Context, id string, at time.Time) (*domain.PostDraft, error) {
	return s.apply(ctx, id, domain.ActionReschedule, func(change *domain.ApprovalChange) {
		change.ScheduledTime = &at
	})
}

func (s *ApprovalService) apply(
	ctx context.Context,
	id string,
	action domain.ApprovalAction,
	decorate func(change *domain.ApprovalChange),
) (*domain.PostDraft, error) {
	var updated *domain.PostDraft

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		post, err := s.posts.Get(txCtx, id)
		if err != nil {
			return fmt.Errorf("get post %s: %w", id, err)
		}

		to, err := domain.NextApprovalStatus(post, action)
		if err != nil {
			return err
		}

		change := domain.ApprovalChange{
			PostID: id,
			From:   post.ApprovalStatus,
			To:     to,
			At:     s.now(),
		}
		if decorate != nil {
			decorate(&change)
		}

		if err := s.posts.ApplyApproval(txCtx, change); err != nil {
			return fmt.Errorf("%s post %s: %w", action, id, err)
		}

		post.ApprovalStatus = change.To
		post.UpdatedAt = change.At
		if change.EditedContent != nil {
			post.EditedContent = change.EditedContent
		}
		if change.RejectionReason != nil {
			post.RejectionReason = change.RejectionReason
		}
		if change.ScheduledTime != nil {
			post.ScheduledTime = *change.ScheduledTime
		}
		updated = post
		return nil
	})
	if err != nil {
		s.logger.Warn("review decision refused", "post_id", id, "action", action, "error", err)
		return nil, err
	}

	s.logger.Info("review decision applied", "post_id", id, "action", action, "approval_status", updated.ApprovalStatus)
	return updated, nil
}

func (s *ApprovalService) Get(ctx context.Context, id string) (*domain.PostDraft, error) {
	post, err := s.posts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post %s: %w", id, err)
	}
	return post, nil
}

// Pending lists posts of the week that still await a decision.
func (s *ApprovalService) Pending(ctx context.Context, weekOf time.Time) ([]domain.PostDraft, error) {
	status := domain.ApprovalPending
	posts, err := s.posts.List(ctx, domain.PostFilter{WeekOf: &weekOf, ApprovalStatus: &status})
	if err != nil {
		return nil, fmt.Errorf("list pending posts: %w", err)
	}
	return posts, nil
}

// Queue returns the week's posts narrowed by the status and platform set in filter.
func (s *ApprovalService) Queue(ctx context.Context, weekOf time.Time, filter domain.PostFilter) (*domain.WeeklyQueue, error) {
	filter.WeekOf = &weekOf
	posts, err := s.posts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list weekly queue: %w", err)
	}
	return &domain.WeeklyQueue{WeekOf: domain.WeekStart(weekOf), Posts: posts}, nil
}

// Flagged lists posts the scheduler gave up on; they need a human decision.
func (s *ApprovalService) Flagged(ctx context.Context) ([]domain.PostDraft, error) {
	status := domain.PublishStatusFlaggedForReview
	posts, err := s.posts.List(ctx, domain.PostFilter{PublishStatus: &status})
	if err != nil {
		return nil, fmt.Errorf("list flagged posts: %w", err)
	}
	return posts, nil
}

func (s *ApprovalService) Summary(ctx context.Context, weekOf *time.Time) (*domain.ApprovalSummary, error) {
	counts, err := s.posts.CountByApproval(ctx, weekOf)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	summary := &domain.ApprovalSummary{Counts: make(map[domain.ApprovalStatus]int, len(domain.ApprovalStatuses))}
	for _, status := range domain.ApprovalStatuses {
		summary.Counts[status] = counts[status]
		summary.Total += counts[status]
	}
	return summary, nil
}
