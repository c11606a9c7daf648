package agent

import (
	"context"
	"fmt"
	"strings"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
	"marketing_engine/internal/llm"
)

var defaultStreamTones = map[domain.Stream]string{
	domain.StreamProjectMarketing: "Professional but approachable. Show technical depth without jargon overload.",
	domain.StreamBenchGoblins:     "Casual and fun. Fantasy sports energy. Hot takes welcome.",
	domain.StreamEVEContent:       "In-universe immersion mixed with community engagement. Speak to capsuleers.",
	domain.StreamLinuxTools:       "Practical and direct. Show, don't tell. Demo-oriented.",
	domain.StreamTechnicalAI:      "Thought leadership. Deep technical insight. Challenge conventional thinking.",
}

type Draft struct {
	runner *Runner
	voice  config.BrandVoiceConfig
	system string
}

func NewDraft(runner *Runner, voice config.BrandVoiceConfig) *Draft {
	return &Draft{runner: runner, voice: voice, system: draftSystemPrompt(voice)}
}

type draftPayload struct {
	Content  string   `json:"content"`
	CTAURL   string   `json:"cta_url"`
	Hashtags []string `json:"hashtags"`
}

func (a *Draft) Draft(ctx context.Context, brief domain.ContentBrief) (*domain.Draft, error) {
	return execute(ctx, a.runner, "draft", a.prompt(brief), a.system, parseDraft)
}

func draftSystemPrompt(voice config.BrandVoiceConfig) string {
	quoted := make([]string, len(voice.Avoid))
	for i, phrase := range voice.Avoid {
		quoted[i] = fmt.Sprintf("%q", phrase)
	}

	var b strings.Builder
	b.WriteString("You are a social media copywriter for a developer's project portfolio.\n\n")
	b.WriteString("Brand voice principles:\n")
	for _, p := range voice.Principles {
		b.WriteString("- " + p + "\n")
	}
	b.WriteString("\nNEVER use these phrases: " + strings.Join(quoted, ", ") + "\n\n")
	b.WriteString("Given a content brief, write a compelling post. Include a clear CTA. ")
	b.WriteString(`Output ONLY JSON: {"content": "...", "cta_url": "...", "hashtags": [...]}`)
	return b.String()
}

func (a *Draft) prompt(brief domain.ContentBrief) string {
	tone, ok := a.voice.StreamTones[string(brief.Stream)]
	if !ok {
		tone, ok = defaultStreamTones[brief.Stream]
	}
	if !ok {
		tone = "Professional and engaging."
	}

	links := "none"
	if len(brief.RelevantLinks) > 0 {
		links = strings.Join(brief.RelevantLinks, ", ")
	}
	platforms := make([]string, len(brief.Platforms))
	for i, p := range brief.Platforms {
		platforms[i] = string(p)
	}

	return fmt.Sprintf("Content Brief:\n"+
		"Topic: %s\n"+
		"Angle: %s\n"+
		"Target Audience: %s\n"+
		"Relevant Links: %s\n"+
		"Stream: %s\n"+
		"Target Platforms: %s\n\n"+
		"Tone guidance for %s: %s\n\n"+
		"Write the post now.",
		brief.Topic, brief.Angle, brief.TargetAudience, links, brief.Stream,
		strings.Join(platforms, ", "), brief.Stream, tone)
}

func parseDraft(raw string) (*domain.Draft, error) {
	var payload draftPayload
	if err := llm.Decode(raw, &payload); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(payload.Content)
	if content == "" {
		return nil, &domain.SchemaValidationError{Field: "content", Reason: "empty"}
	}
	return &domain.Draft{
		Content:  content,
		CTAURL:   strings.TrimSpace(payload.CTAURL),
		Hashtags: normalizeHashtags(payload.Hashtags),
	}, nil
}

func normalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, t := range tags {
		t = strings.TrimLeft(strings.TrimSpace(t), "#")
		if t == "" || seen[strings.ToLower(t)] {
			continue
		}
		seen[strings.ToLower(t)] = true
		out = append(out, t)
	}
	return out
}
