package agent

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"marketing_engine/internal/config"
	"marketing_engine/internal/domain"
	"marketing_engine/internal/llm"
)

// Limit is the hard structure ceiling for one platform.
type Limit struct {
	MaxChars    int
	MaxHashtags int
	StyleNotes  string
}

var defaultLimits = map[domain.Platform]Limit{
	domain.PlatformTwitter:  {MaxChars: 280, MaxHashtags: 3},
	domain.PlatformLinkedIn: {MaxChars: 3000, MaxHashtags: 5},
	domain.PlatformReddit:   {MaxChars: 10000, MaxHashtags: 0},
	domain.PlatformYouTube:  {MaxChars: 5000, MaxHashtags: 15},
	domain.PlatformTikTok:   {MaxChars: 2200, MaxHashtags: 5},
}

// LimitsFromConfig merges configured platform rules over the built-in ceilings.
func LimitsFromConfig(rules map[string]config.PlatformRule) map[domain.Platform]Limit {
	limits := make(map[domain.Platform]Limit, len(defaultLimits))
	for p, l := range defaultLimits {
		limits[p] = l
	}
	for name, rule := range rules {
		p, ok := domain.ParsePlatform(name)
		if !ok {
			continue
		}
		l := limits[p]
		if rule.MaxChars > 0 {
			l.MaxChars = rule.MaxChars
		}
		if rule.MaxHashtags != nil {
			l.MaxHashtags = *rule.MaxHashtags
		}
		l.StyleNotes = rule.StyleNotes
		limits[p] = l
	}
	return limits
}

var markupPattern = regexp.MustCompile(`<[a-zA-Z/!][^>]*>`)

type Format struct {
	runner *Runner
	limits map[domain.Platform]Limit
	strip  *bluemonday.Policy
}

func NewFormat(runner *Runner, limits map[domain.Platform]Limit) *Format {
	return &Format{runner: runner, limits: limits, strip: bluemonday.StrictPolicy()}
}

type formatPayload struct {
	Content   string   `json:"content"`
	Hashtags  []string `json:"hashtags"`
	Subreddit *string  `json:"subreddit"`
}

func (a *Format) limitFor(p domain.Platform) Limit {
	if l, ok := a.limits[p]; ok {
		return l
	}
	return Limit{MaxChars: 280, MaxHashtags: 3}
}

// Format rewrites content for platform. Output that breaks the platform's hard limits
// counts as a schema failure, so it is retried rather than cut.
func (a *Format) Format(ctx context.Context, content string, platform domain.Platform, stream domain.Stream) (*domain.Formatted, error) {
	limit := a.limitFor(platform)
	parse := func(raw string) (*domain.Formatted, error) {
		return a.parse(raw, platform, limit)
	}
	return execute(ctx, a.runner, "format", formatPrompt(content, platform, stream, limit), formatSystemPrompt(platform, limit), parse)
}

func formatSystemPrompt(platform domain.Platform, limit Limit) string {
	subredditNote := ""
	if platform == domain.PlatformReddit {
		subredditNote = ` Include "subreddit" key with the target subreddit name (without r/ prefix).`
	}
	return fmt.Sprintf("You are a social media formatter. "+
		"Reformat the given post for %s. "+
		"Maximum %d characters. "+
		"Maximum %d hashtags. "+
		"Respect the platform's conventions and culture.%s "+
		`Output ONLY JSON: {"content": "...", "hashtags": [...], "subreddit": "..." (reddit only, null otherwise)}`,
		platform, limit.MaxChars, limit.MaxHashtags, subredditNote)
}

func formatPrompt(content string, platform domain.Platform, stream domain.Stream, limit Limit) string {
	streamName := string(stream)
	if streamName == "" {
		streamName = "general"
	}
	lines := []string{
		fmt.Sprintf("Reformat this post for %s:", platform),
		"",
		content,
		"",
		"Content stream: " + streamName,
	}
	if limit.StyleNotes != "" {
		lines = append(lines, "Platform style notes: "+limit.StyleNotes)
	}
	return strings.Join(lines, "\n")
}

func (a *Format) parse(raw string, platform domain.Platform, limit Limit) (*domain.Formatted, error) {
	var payload formatPayload
	if err := llm.Decode(raw, &payload); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(payload.Content)
	if markupPattern.MatchString(content) {
		content = strings.TrimSpace(html.UnescapeString(a.strip.Sanitize(content)))
	}
	if content == "" {
		return nil, &domain.SchemaValidationError{Field: "content", Reason: "empty"}
	}
	if n := utf8.RuneCountInString(content); n > limit.MaxChars {
		return nil, &domain.SchemaValidationError{
			Field:  "content",
			Reason: fmt.Sprintf("%d characters exceeds the %s limit of %d", n, platform, limit.MaxChars),
		}
	}

	hashtags := normalizeHashtags(payload.Hashtags)
	if len(hashtags) > limit.MaxHashtags {
		hashtags = hashtags[:limit.MaxHashtags]
	}

	out := &domain.Formatted{Content: content, Hashtags: hashtags}
	if platform == domain.PlatformReddit {
		if payload.Subreddit == nil {
			return nil, &domain.SchemaValidationError{Field: "subreddit", Reason: "required for reddit"}
		}
		sub := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(*payload.Subreddit), "/"), "r/")
		if sub == "" {
			return nil, &domain.SchemaValidationError{Field: "subreddit", Reason: "required for reddit"}
		}
		out.Subreddit = &sub
	}
	return out, nil
}
