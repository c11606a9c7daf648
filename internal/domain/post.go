package domain

import (
	"strings"
	"time"
)

type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
	PlatformReddit   Platform = "reddit"
	PlatformYouTube  Platform = "youtube"
	PlatformTikTok   Platform = "tiktok"
)

// Platforms lists every platform in declaration order.
var Platforms = []Platform{
	PlatformTwitter,
	PlatformLinkedIn,
	PlatformReddit,
	PlatformYouTube,
	PlatformTikTok,
}

// ParsePlatform normalizes s and reports whether it names a known platform.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Platforms {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Stream is a thematic content grouping used for anti-clustering.
type Stream string

const (
	StreamProjectMarketing Stream = "project_marketing"
	StreamBenchGoblins     Stream = "benchgoblins"
	StreamEVEContent       Stream = "eve_content"
	StreamLinuxTools       Stream = "linux_tools"
	StreamTechnicalAI      Stream = "technical_ai"
)

var Streams = []Stream{
	StreamProjectMarketing,
	StreamBenchGoblins,
	StreamEVEContent,
	StreamLinuxTools,
	StreamTechnicalAI,
}

func ParseStream(s string) (Stream, bool) {
	st := Stream(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Streams {
		if st == known {
			return st, true
		}
	}
	return "", false
}

// PostDraft is a generated post for one platform and the unit of approval and publishing.
type PostDraft struct {
	ID              string
	RunID           string
	BriefID         string
	Stream          Stream
	Platform        Platform
	Content         string
	EditedContent   *string
	MediaURLs       []string
	CTAURL          string
	Hashtags        []string
	Subreddit       *string
	ScheduledTime   time.Time
	ApprovalStatus  ApprovalStatus
	RejectionReason *string
	PublishStatus   PublishStatus
	RetryCount      int
	PostURL         *string
	PlatformPostID  *string
	PublishError    *string
	Metrics         map[string]int64
	ClaimedAt       *time.Time
	PublishedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EffectiveContent returns the human edit when one exists, otherwise the generated content.
func (p *PostDraft) EffectiveContent() string {
	if p.EditedContent != nil {
		return *p.EditedContent
	}
	return p.Content
}

// IsPublishEligible reports whether the approval decision allows delivery.
func (p *PostDraft) IsPublishEligible() bool {
	return p.ApprovalStatus.PublishEligible()
}

// CanClaim reports whether a scheduler may attempt to take ownership of the post.
func (p *PostDraft) CanClaim() bool {
	if !p.IsPublishEligible() {
		return false
	}
	switch p.PublishStatus {
	case PublishStatusNotPublished:
		return p.RetryCount == 0
	case PublishStatusFailedRetry:
		return p.RetryCount <= MaxPublishRetries
	default:
		return false
	}
}

// PostFilter narrows listings of posts. Zero values mean "any".
type PostFilter struct {
	WeekOf         *time.Time
	ApprovalStatus *ApprovalStatus
	PublishStatus  *PublishStatus
	Platform       *Platform
	Limit          int
}

// StatusFilter narrows a listing to one approval or publish status given by name.
// An empty name or "all" matches every post.
func StatusFilter(name string) (PostFilter, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "all" {
		return PostFilter{}, true
	}
	if s, ok := ParseApprovalStatus(name); ok {
		return PostFilter{ApprovalStatus: &s}, true
	}
	if s, ok := ParsePublishStatus(name); ok {
		return PostFilter{PublishStatus: &s}, true
	}
	return PostFilter{}, false
}

// ApprovalChange is a reviewed decision, applied only if the post still has the From status.
type ApprovalChange struct {
	PostID          string
	From            ApprovalStatus
	To              ApprovalStatus
	EditedContent   *string
	RejectionReason *string
	ScheduledTime   *time.Time
	At              time.Time
}

// PublishOutcome is the final state written for a claimed post.
type PublishOutcome struct {
	PostID         string
	Status         PublishStatus
	RetryCount     int
	PlatformPostID *string
	PostURL        *string
	Error          *string
	At             time.Time
}
