package publisher

import (
	"strings"
	"unicode/utf8"

	"marketing_engine/internal/domain"
)

// composeText appends the CTA link and hashtags to the content as long as the result stays
// within maxChars. maxChars <= 0 means no ceiling. Content itself is never shortened.
func composeText(req domain.PublishRequest, maxChars int, withHashtags bool) string {
	text := strings.TrimSpace(req.Content)
	fits := func(s string) bool {
		return maxChars <= 0 || utf8.RuneCountInString(s) <= maxChars
	}

	if req.CTAURL != "" && !strings.Contains(text, req.CTAURL) {
		if candidate := text + "\n\n" + req.CTAURL; fits(candidate) {
			text = candidate
		}
	}

	if !withHashtags {
		return text
	}

	lower := strings.ToLower(text)
	sep := "\n\n"
	for _, tag := range req.Hashtags {
		tag = "#" + strings.TrimPrefix(strings.TrimSpace(tag), "#")
		if tag == "#" || strings.Contains(lower, strings.ToLower(tag)) {
			continue
		}
		candidate := text + sep + tag
		if !fits(candidate) {
			break
		}
		text = candidate
		sep = " "
	}
	return text
}
