package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"marketing_engine/internal/domain"
)

// memoryPosts mirrors the conditional updates of the postgres store so that multi-step
// scenarios can run without a database.
type memoryPosts struct {
	mu    sync.Mutex
	posts map[string]domain.PostDraft
}

func newMemoryPosts(posts ...domain.PostDraft) *memoryPosts {
	m := &memoryPosts{posts: make(map[string]domain.PostDraft)}
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return m
}

func (m *memoryPosts) Create(ctx context.Context, posts []domain.PostDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range posts {
		m.posts[p.ID] = p
	}
	return nil
}

func (m *memoryPosts) Get(ctx context.Context, id string) (*domain.PostDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *memoryPosts) sorted(keep func(p domain.PostDraft) bool) []domain.PostDraft {
	var out []domain.PostDraft
	for _, p := range m.posts {
		if keep(p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledTime.Equal(out[j].ScheduledTime) {
			return out[i].ScheduledTime.Before(out[j].ScheduledTime)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryPosts) List(ctx context.Context, filter domain.PostFilter) ([]domain.PostDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(p domain.PostDraft) bool {
		if filter.WeekOf != nil {
			start := domain.WeekStart(*filter.WeekOf)
			if p.ScheduledTime.Before(start) || !p.ScheduledTime.Before(start.AddDate(0, 0, 7)) {
				return false
			}
		}
		if filter.ApprovalStatus != nil && p.ApprovalStatus != *filter.ApprovalStatus {
			return false
		}
		if filter.PublishStatus != nil && p.PublishStatus != *filter.PublishStatus {
			return false
		}
		return filter.Platform == nil || p.Platform == *filter.Platform
	}), nil
}

func (m *memoryPosts) ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PostDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	due := m.sorted(func(p domain.PostDraft) bool {
		return !p.ScheduledTime.After(now) && p.CanClaim()
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

func (m *memoryPosts) ApplyApproval(ctx context.Context, change domain.ApprovalChange) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[change.PostID]
	if !ok || p.ApprovalStatus != change.From ||
		p.PublishStatus == domain.PublishStatusPublishing || p.PublishStatus == domain.PublishStatusPublished {
		return fmt.Errorf("post %s: %w", change.PostID, domain.ErrConcurrentUpdate)
	}
	p.ApprovalStatus = change.To
	if change.EditedContent != nil {
		p.EditedContent = change.EditedContent
	}
	if change.RejectionReason != nil {
		p.RejectionReason = change.RejectionReason
	}
	if change.ScheduledTime != nil {
		p.ScheduledTime = *change.ScheduledTime
	}
	p.UpdatedAt = change.At
	m.posts[p.ID] = p
	return nil
}

func (m *memoryPosts) Claim(ctx context.Context, id string, from domain.PublishStatus, retryCount int, dueBy, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.PublishStatus != from || p.RetryCount != retryCount || !p.IsPublishEligible() {
		return false, nil
	}
	if !dueBy.IsZero() && p.ScheduledTime.After(dueBy) {
		return false, nil
	}
	p.PublishStatus = domain.PublishStatusPublishing
	p.ClaimedAt = &at
	m.posts[id] = p
	return true, nil
}

func (m *memoryPosts) Finish(ctx context.Context, outcome domain.PublishOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[outcome.PostID]
	if !ok || p.PublishStatus != domain.PublishStatusPublishing {
		return fmt.Errorf("post %s: %w", outcome.PostID, domain.ErrConcurrentUpdate)
	}
	p.PublishStatus = outcome.Status
	p.RetryCount = outcome.RetryCount
	if outcome.PlatformPostID != nil {
		p.PlatformPostID = outcome.PlatformPostID
	}
	if outcome.PostURL != nil {
		p.PostURL = outcome.PostURL
	}
	p.PublishError = outcome.Error
	if outcome.Status == domain.PublishStatusPublished {
		at := outcome.At
		p.PublishedAt = &at
	}
	p.ClaimedAt = nil
	m.posts[p.ID] = p
	return nil
}

func (m *memoryPosts) RecoverStale(ctx context.Context, claimedBefore, at time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, p := range m.posts {
		if p.PublishStatus == domain.PublishStatusPublishing && p.ClaimedAt != nil && p.ClaimedAt.Before(claimedBefore) {
			p.PublishStatus = domain.PublishStatusFlaggedForReview
			p.ClaimedAt = nil
			m.posts[id] = p
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (m *memoryPosts) RecordMetrics(ctx context.Context, id string, metrics map[string]int64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok || p.PublishStatus != domain.PublishStatusPublished {
		return domain.ErrNotPublishable
	}
	p.Metrics = metrics
	m.posts[id] = p
	return nil
}

func (m *memoryPosts) CountByApproval(ctx context.Context, weekOf *time.Time) (map[domain.ApprovalStatus]int, error) {
	posts, _ := m.List(ctx, domain.PostFilter{WeekOf: weekOf})
	counts := make(map[domain.ApprovalStatus]int)
	for _, p := range posts {
		counts[p.ApprovalStatus]++
	}
	return counts, nil
}

func (m *memoryPosts) CountByPublish(ctx context.Context, weekOf *time.Time) (map[domain.PublishStatus]int, error) {
	posts, _ := m.List(ctx, domain.PostFilter{WeekOf: weekOf})
	counts := make(map[domain.PublishStatus]int)
	for _, p := range posts {
		counts[p.PublishStatus]++
	}
	return counts, nil
}

type memoryPublishLog struct {
	mu      sync.Mutex
	entries []domain.PublishResult
}

func (l *memoryPublishLog) Append(ctx context.Context, entry *domain.PublishResult) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, *entry)
	return nil
}

func (l *memoryPublishLog) Recent(ctx context.Context, limit int) ([]domain.PublishResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.PublishResult, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

func (l *memoryPublishLog) ForPost(ctx context.Context, postID string) ([]domain.PublishResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []domain.PublishResult
	for _, e := range l.entries {
		if e.PostID == postID {
			out = append(out, e)
		}
	}
	return out, nil
}

type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
