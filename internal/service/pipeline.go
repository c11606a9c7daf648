package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"marketing_engine/internal/domain"
)

type PipelineService struct {
	research  ResearchAgent
	drafts    DraftAgent
	formatter FormatAgent
	queue     QueueBuilder
	posts     PostStore
	runs      PipelineRunStore
	txManager TransactionManager
	metrics   PipelineMetrics
	logger    *slog.Logger

	now   func() time.Time
	newID func() string
}

func NewPipelineService(
	research ResearchAgent,
	drafts DraftAgent,
	formatter FormatAgent,
	queue QueueBuilder,
	posts PostStore,
	runs PipelineRunStore,
	txManager TransactionManager,
	metrics PipelineMetrics,
	logger *slog.Logger,
) *PipelineService {
	return &PipelineService{
		research:  research,
		drafts:    drafts,
		formatter: formatter,
		queue:     queue,
		posts:     posts,
		runs:      runs,
		txManager: txManager,
		metrics:   metrics,
		logger:    logger.With("component", "pipeline"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Generate runs research, draft, format and queue for one week. Posts are only written once
// every stage succeeded, so a failed run leaves no posts behind. The returned run is non-nil
// whenever it was recorded, including on failure.
func (s *PipelineService) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.PipelineRun, error) {
	weekOf := domain.WeekStart(req.WeekOf)
	run := &domain.PipelineRun{
		ID:        s.newID(),
		WeekOf:    weekOf,
		Stage:     domain.StageResearch,
		Status:    domain.RunStatusRunning,
		StartedAt: s.now(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("create pipeline run: %w", err)
	}

	logger := s.logger.With("run_id", run.ID, "week_of", weekOf.Format(time.DateOnly))
	logger.Info("starting pipeline", "streams", len(req.Streams))

	briefs, err := s.research.Research(ctx, domain.ResearchRequest{Streams: req.Streams, Activity: req.Activity})
	if err != nil {
		return run, s.fail(ctx, logger, run, err)
	}
	run.BriefsCount = len(briefs)
	logger.Info("research finished", "briefs", len(briefs))

	if err := s.advance(ctx, run, domain.StageDraft); err != nil {
		return run, err
	}

	posts := make([]domain.PostDraft, 0, len(briefs))
	for i := range briefs {
		brief := &briefs[i]
		if brief.ID == "" {
			brief.ID = s.newID()
		}
		draft, err := s.drafts.Draft(ctx, *brief)
		if err != nil {
			return run, s.fail(ctx, logger, run, fmt.Errorf("brief %q: %w", brief.Topic, err))
		}
		for _, platform := range brief.Platforms {
			posts = append(posts, domain.PostDraft{
				ID:       s.newID(),
				RunID:    run.ID,
				BriefID:  brief.ID,
				Stream:   brief.Stream,
				Platform: platform,
				Content:  draft.Content,
				CTAURL:   draft.CTAURL,
				Hashtags: draft.Hashtags,
			})
		}
	}
	run.DraftsCount = len(posts)
	logger.Info("drafting finished", "drafts", len(posts))

	if err := s.advance(ctx, run, domain.StageFormat); err != nil {
		return run, err
	}

	for i := range posts {
		post := &posts[i]
		formatted, err := s.formatter.Format(ctx, post.Content, post.Platform, post.Stream)
		if err != nil {
			return run, s.fail(ctx, logger, run, fmt.Errorf("%s post for brief %s: %w", post.Platform, post.BriefID, err))
		}
		post.Content = formatted.Content
		post.Hashtags = formatted.Hashtags
		post.Subreddit = formatted.Subreddit
	}

	if err := s.advance(ctx, run, domain.StageQueue); err != nil {
		return run, err
	}

	scheduled := s.queue.Assign(posts, weekOf)
	now := s.now()
	for i := range scheduled {
		scheduled[i].ApprovalStatus = domain.ApprovalPending
		scheduled[i].PublishStatus = domain.PublishStatusNotPublished
		scheduled[i].RetryCount = 0
		scheduled[i].CreatedAt = now
		scheduled[i].UpdatedAt = now
	}

	run.PostsCount = len(scheduled)
	run.Status = domain.RunStatusSucceeded
	run.CompletedAt = &now

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.posts.Create(txCtx, scheduled); err != nil {
			return fmt.Errorf("save posts: %w", err)
		}
		if err := s.runs.Update(txCtx, run); err != nil {
			return fmt.Errorf("complete pipeline run: %w", err)
		}
		return nil
	})
	if err != nil {
		run.Status = domain.RunStatusRunning
		run.CompletedAt = nil
		run.PostsCount = 0
		return run, s.fail(ctx, logger, run, err)
	}

	s.record(run)
	logger.Info("pipeline completed",
		"briefs", run.BriefsCount,
		"drafts", run.DraftsCount,
		"posts", run.PostsCount,
		"duration", run.Duration(),
	)

	return run, nil
}

func (s *PipelineService) advance(ctx context.Context, run *domain.PipelineRun, stage domain.Stage) error {
	run.Stage = stage
	if err := s.runs.Update(ctx, run); err != nil {
		return fmt.Errorf("record stage %s: %w", stage, err)
	}
	return nil
}

// fail marks the run failed at its current stage and returns the stage error for the caller.
func (s *PipelineService) fail(ctx context.Context, logger *slog.Logger, run *domain.PipelineRun, cause error) error {
	stageErr := &domain.StageError{Stage: run.Stage, Err: cause}

	msg := cause.Error()
	completed := s.now()
	run.Status = domain.RunStatusFailed
	run.Error = &msg
	run.CompletedAt = &completed

	if err := s.runs.Update(ctx, run); err != nil {
		logger.Error("failed to record pipeline failure", "error", err)
	}
	s.record(run)

	logger.Error("pipeline failed", "stage", run.Stage, "error", cause)
	return stageErr
}

func (s *PipelineService) record(run *domain.PipelineRun) {
	if s.metrics != nil {
		s.metrics.RecordPipelineRun(run.Status, run.Stage, run.Duration())
	}
}

// History lists the most recent pipeline runs, newest first.
func (s *PipelineService) History(ctx context.Context, limit int) ([]domain.PipelineRun, error) {
	runs, err := s.runs.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("recent pipeline runs: %w", err)
	}
	return runs, nil
}
