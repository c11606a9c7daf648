package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"marketing_engine/internal/domain"
)

type PostStore interface {
	Create(ctx context.Context, posts []domain.PostDraft) error
	Get(ctx context.Context, id string) (*domain.PostDraft, error)
	List(ctx context.Context, filter domain.PostFilter) ([]domain.PostDraft, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.PostDraft, error)
	ApplyApproval(ctx context.Context, change domain.ApprovalChange) error
	Claim(ctx context.Context, id string, from domain.PublishStatus, retryCount int, dueBy, at time.Time) (bool, error)
	Finish(ctx context.Context, outcome domain.PublishOutcome) error
	RecoverStale(ctx context.Context, claimedBefore, at time.Time) ([]string, error)
	RecordMetrics(ctx context.Context, id string, metrics map[string]int64, at time.Time) error
	CountByApproval(ctx context.Context, weekOf *time.Time) (map[domain.ApprovalStatus]int, error)
	CountByPublish(ctx context.Context, weekOf *time.Time) (map[domain.PublishStatus]int, error)
}

type PipelineRunStore interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	Update(ctx context.Context, run *domain.PipelineRun) error
	Get(ctx context.Context, id string) (*domain.PipelineRun, error)
	Recent(ctx context.Context, limit int) ([]domain.PipelineRun, error)
}

type PublishLogStore interface {
	Append(ctx context.Context, entry *domain.PublishResult) error
	Recent(ctx context.Context, limit int) ([]domain.PublishResult, error)
	ForPost(ctx context.Context, postID string) ([]domain.PublishResult, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ResearchAgent interface {
	Research(ctx context.Context, req domain.ResearchRequest) ([]domain.ContentBrief, error)
}

type DraftAgent interface {
	Draft(ctx context.Context, brief domain.ContentBrief) (*domain.Draft, error)
}

type FormatAgent interface {
	Format(ctx context.Context, content string, platform domain.Platform, stream domain.Stream) (*domain.Formatted, error)
}

type QueueBuilder interface {
	Assign(posts []domain.PostDraft, weekOf time.Time) []domain.PostDraft
}

// PublisherRegistry routes a request to the client for its platform.
type PublisherRegistry interface {
	Wait(ctx context.Context, platform domain.Platform) error
	Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error)
	DryRun() bool
}

// EventPublisher announces publish outcomes to other systems.
type EventPublisher interface {
	PublishOutcome(ctx context.Context, result *domain.PublishResult, status domain.PublishStatus) error
}

type LicenseChecker interface {
	Require(feature string) error
}

type PipelineMetrics interface {
	RecordPipelineRun(status domain.RunStatus, stage domain.Stage, duration time.Duration)
}

type PublishMetrics interface {
	RecordPublishOutcome(platform domain.Platform, status domain.PublishStatus)
	RecordClaim(won bool)
	RecordStaleRecovered(count int)
	RecordPublishPass(duration time.Duration)
}
