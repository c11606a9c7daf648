package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"marketing_engine/internal/domain"
)

type ExportFormat string

const (
	ExportJSON     ExportFormat = "json"
	ExportMarkdown ExportFormat = "markdown"
)

func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case ExportJSON, ExportMarkdown:
		return f, nil
	case "md":
		return ExportMarkdown, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want json or markdown)", s)
	}
}

// ExportService renders the approved posts of a week. Content is always the effective content.
type ExportService struct {
	posts PostStore
	loc   *time.Location
}

// NewExportService renders times in loc; nil means UTC.
func NewExportService(posts PostStore, loc *time.Location) *ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExportService{posts: posts, loc: loc}
}

type exportedPost struct {
	ID            string                `json:"id"`
	Platform      domain.Platform       `json:"platform"`
	Stream        domain.Stream         `json:"stream"`
	Content       string                `json:"content"`
	CTAURL        string                `json:"cta_url"`
	Hashtags      []string              `json:"hashtags"`
	Subreddit     *string               `json:"subreddit"`
	ScheduledTime string                `json:"scheduled_time"`
	Status        domain.ApprovalStatus `json:"status"`
}

func (s *ExportService) Export(ctx context.Context, weekOf time.Time, format ExportFormat) (string, error) {
	posts, err := s.posts.List(ctx, domain.PostFilter{WeekOf: &weekOf})
	if err != nil {
		return "", fmt.Errorf("list posts: %w", err)
	}

	approved := make([]domain.PostDraft, 0, len(posts))
	for _, p := range posts {
		if p.IsPublishEligible() {
			approved = append(approved, p)
		}
	}
	sort.SliceStable(approved, func(i, j int) bool {
		return approved[i].ScheduledTime.Before(approved[j].ScheduledTime)
	})

	switch format {
	case ExportMarkdown:
		return s.markdown(approved), nil
	case ExportJSON, "":
		return s.json(approved)
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}
}

func (s *ExportService) json(posts []domain.PostDraft) (string, error) {
	items := make([]exportedPost, 0, len(posts))
	for i := range posts {
		p := &posts[i]
		hashtags := p.Hashtags
		if hashtags == nil {
			hashtags = []string{}
		}
		items = append(items, exportedPost{
			ID:            p.ID,
			Platform:      p.Platform,
			Stream:        p.Stream,
			Content:       p.EffectiveContent(),
			CTAURL:        p.CTAURL,
			Hashtags:      hashtags,
			Subreddit:     p.Subreddit,
			ScheduledTime: p.ScheduledTime.In(s.loc).Format(time.RFC3339),
			Status:        p.ApprovalStatus,
		})
	}

	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode export: %w", err)
	}
	return string(out), nil
}

func (s *ExportService) markdown(posts []domain.PostDraft) string {
	if len(posts) == 0 {
		return "# Weekly Content Queue\n\nNo approved posts for this week.\n"
	}

	var b strings.Builder
	b.WriteString("# Weekly Content Queue\n\n")

	currentDay := ""
	for i := range posts {
		p := &posts[i]
		at := p.ScheduledTime.In(s.loc)

		if day := at.Format("Monday, January 02"); day != currentDay {
			currentDay = day
			fmt.Fprintf(&b, "## %s\n\n", day)
		}

		fmt.Fprintf(&b, "### %s [%s] (%s)\n\n", at.Format("03:04 PM"), strings.ToUpper(string(p.Platform)), p.Stream)
		b.WriteString(p.EffectiveContent())
		b.WriteString("\n\n")

		if len(p.Hashtags) > 0 {
			tags := make([]string, len(p.Hashtags))
			for i, tag := range p.Hashtags {
				tags[i] = "#" + strings.TrimPrefix(tag, "#")
			}
			fmt.Fprintf(&b, "**Tags:** %s\n\n", strings.Join(tags, " "))
		}
		if p.CTAURL != "" {
			fmt.Fprintf(&b, "**CTA:** %s\n\n", p.CTAURL)
		}
		if p.Subreddit != nil && *p.Subreddit != "" {
			fmt.Fprintf(&b, "**Subreddit:** r/%s\n\n", *p.Subreddit)
		}
		b.WriteString("---\n\n")
	}

	return b.String()
}
