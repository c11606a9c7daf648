package domain

import "time"

// PublishRequest carries everything a platform client needs. Content is always the effective content.
type PublishRequest struct {
	PostID    string
	Platform  Platform
	Content   string
	MediaURLs []string
	Hashtags  []string
	CTAURL    string
	Subreddit *string
}

// NewPublishRequest builds the request from the post's effective content.
func NewPublishRequest(post *PostDraft) PublishRequest {
	return PublishRequest{
		PostID:    post.ID,
		Platform:  post.Platform,
		Content:   post.EffectiveContent(),
		MediaURLs: post.MediaURLs,
		Hashtags:  post.Hashtags,
		CTAURL:    post.CTAURL,
		Subreddit: post.Subreddit,
	}
}

type PublishLogStatus string

const (
	PublishLogPublished PublishLogStatus = "published"
	PublishLogFailed    PublishLogStatus = "failed"
)

// PublishResult is one append-only publish log entry.
type PublishResult struct {
	ID             string           `db:"id" json:"id"`
	PostID         string           `db:"post_id" json:"post_id"`
	Platform       Platform         `db:"platform" json:"platform"`
	Status         PublishLogStatus `db:"status" json:"status"`
	PlatformPostID *string          `db:"platform_post_id" json:"platform_post_id,omitempty"`
	PostURL        *string          `db:"post_url" json:"post_url,omitempty"`
	Error          *string          `db:"error" json:"error,omitempty"`
	PublishedAt    time.Time        `db:"published_at" json:"published_at"`
}

func (r *PublishResult) Success() bool {
	return r.Status == PublishLogPublished
}

// PublishStats summarizes one scheduler pass.
type PublishStats struct {
	Due       int
	Claimed   int
	Skipped   int
	Published int
	Retrying  int
	Flagged   int
	Recovered int
	Deferred  int
	Errors    int
	Results   []PublishResult
	Duration  time.Duration
}

// PublishReceipt is what a platform hands back for a delivered post.
type PublishReceipt struct {
	PlatformPostID string
	PostURL        string
}
