package agent

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"marketing_engine/internal/domain"
	"marketing_engine/internal/llm"
)

const researchSystemPrompt = "You are a content strategist for a developer's project portfolio. " +
	"Given content streams and recent activity, produce content briefs. " +
	"Each brief should have a unique angle that drives engagement. " +
	"Output ONLY a JSON array of objects with keys: " +
	"topic, angle, target_audience, relevant_links (array of URLs), " +
	"stream (one of: project_marketing, benchgoblins, eve_content, linux_tools, technical_ai), " +
	"platforms (array of: twitter, linkedin, reddit)."

type Research struct {
	runner *Runner
}

func NewResearch(runner *Runner) *Research {
	return &Research{runner: runner}
}

type briefPayload struct {
	Topic          *string  `json:"topic"`
	Angle          string   `json:"angle"`
	TargetAudience *string  `json:"target_audience"`
	RelevantLinks  []string `json:"relevant_links"`
	Stream         string   `json:"stream"`
	Platforms      []string `json:"platforms"`
}

func (a *Research) Research(ctx context.Context, req domain.ResearchRequest) ([]domain.ContentBrief, error) {
	return execute(ctx, a.runner, "research", researchPrompt(req), researchSystemPrompt, parseBriefs)
}

func researchPrompt(req domain.ResearchRequest) string {
	streams := req.Streams
	if len(streams) == 0 {
		streams = domain.Streams
	}
	names := make([]string, len(streams))
	for i, s := range streams {
		names[i] = string(s)
	}

	var b strings.Builder
	b.WriteString("Generate content briefs for the following streams:\n")
	b.WriteString(strings.Join(names, ", "))
	b.WriteString("\n")
	if req.Activity != "" {
		b.WriteString("\nRecent activity and context:\n")
		b.WriteString(req.Activity)
		b.WriteString("\n")
	}
	b.WriteString("\nCreate one brief per stream. Each brief should target 2-3 platforms for maximum reach.")
	return b.String()
}

func parseBriefs(raw string) ([]domain.ContentBrief, error) {
	items, err := llm.DecodeList[briefPayload](raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, &domain.SchemaValidationError{Field: "briefs", Reason: "no briefs returned"}
	}

	briefs := make([]domain.ContentBrief, 0, len(items))
	for _, item := range items {
		briefs = append(briefs, normalizeBrief(item))
	}
	return briefs, nil
}

func normalizeBrief(item briefPayload) domain.ContentBrief {
	var platforms []domain.Platform
	seen := make(map[domain.Platform]bool)
	for _, name := range item.Platforms {
		p, ok := domain.ParsePlatform(name)
		if !ok || seen[p] {
			continue
		}
		seen[p] = true
		platforms = append(platforms, p)
	}
	if len(platforms) == 0 {
		platforms = []domain.Platform{domain.PlatformTwitter}
	}

	stream, ok := domain.ParseStream(item.Stream)
	if !ok {
		stream = domain.StreamProjectMarketing
	}

	topic := "Untitled"
	if item.Topic != nil && strings.TrimSpace(*item.Topic) != "" {
		topic = strings.TrimSpace(*item.Topic)
	}
	audience := "developers"
	if item.TargetAudience != nil && strings.TrimSpace(*item.TargetAudience) != "" {
		audience = strings.TrimSpace(*item.TargetAudience)
	}

	return domain.ContentBrief{
		ID:             uuid.NewString(),
		Topic:          topic,
		Angle:          item.Angle,
		TargetAudience: audience,
		RelevantLinks:  item.RelevantLinks,
		Stream:         stream,
		Platforms:      platforms,
	}
}
