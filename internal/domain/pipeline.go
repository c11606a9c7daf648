package domain

import "time"

type Stage string

const (
	StageResearch Stage = "research"
	StageDraft    Stage = "draft"
	StageFormat   Stage = "format"
	StageQueue    Stage = "queue"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// PipelineRun records one generation run for a week.
type PipelineRun struct {
	ID          string     `db:"id"`
	WeekOf      time.Time  `db:"week_of"`
	Stage       Stage      `db:"stage"`
	Status      RunStatus  `db:"status"`
	Error       *string    `db:"error"`
	BriefsCount int        `db:"briefs_count"`
	DraftsCount int        `db:"drafts_count"`
	PostsCount  int        `db:"posts_count"`
	StartedAt   time.Time  `db:"started_at"`
	CompletedAt *time.Time `db:"completed_at"`
}

// Duration is zero while the run is still in progress.
func (r *PipelineRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// ContentBrief is produced by research and consumed by drafting. It is never persisted.
type ContentBrief struct {
	ID             string
	Topic          string
	Angle          string
	TargetAudience string
	RelevantLinks  []string
	Stream         Stream
	Platforms      []Platform
}

// ResearchRequest narrows what the research agent writes about.
type ResearchRequest struct {
	Streams  []Stream
	Activity string
}

type Draft struct {
	Content  string
	CTAURL   string
	Hashtags []string
}

type Formatted struct {
	Content   string
	Hashtags  []string
	Subreddit *string
}

// GenerateRequest is the input of one pipeline run.
type GenerateRequest struct {
	WeekOf   time.Time
	Streams  []Stream
	Activity string
}
