// Package activity collects recent project activity that the research agent writes about.
// Sources are inline text, local files, RSS/Atom feeds and plain web pages.
package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/doyensec/safeurl"
	"github.com/mmcdole/gofeed"

	"marketing_engine/internal/config"
)

const (
	maxBodySize   = 2 << 20
	maxSummaryLen = 280
	userAgent     = "marketing-engine/0.1.0"
)

type Loader struct {
	client   *http.Client
	feeds    []string
	pages    []string
	maxItems int
	logger   *slog.Logger
}

// NewLoader fetches through a client that refuses private, loopback and metadata addresses.
func NewLoader(cfg config.ActivityConfig, logger *slog.Logger) *Loader {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	safeConfig := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()

	return NewLoaderWithClient(safeurl.Client(safeConfig).Client, cfg, logger)
}

func NewLoaderWithClient(client *http.Client, cfg config.ActivityConfig, logger *slog.Logger) *Loader {
	maxItems := cfg.MaxItems
	if maxItems <= 0 {
		maxItems = 10
	}
	return &Loader{
		client:   client,
		feeds:    cfg.Feeds,
		pages:    cfg.Pages,
		maxItems: maxItems,
		logger:   logger.With("component", "activity"),
	}
}

// Load resolves arg and the configured feeds and pages into one text block.
// arg may be empty, a URL, a path to an existing file, or inline text.
// A source that cannot be read is logged and skipped.
func (l *Loader) Load(ctx context.Context, arg string) (string, error) {
	var sections []string

	if text, err := l.resolve(ctx, strings.TrimSpace(arg)); err != nil {
		return "", err
	} else if text != "" {
		sections = append(sections, text)
	}

	for _, u := range l.feeds {
		text, err := l.fetchFeed(ctx, u)
		if err != nil {
			l.logger.Warn("skipping activity feed", "url", u, "error", err)
			continue
		}
		sections = append(sections, text)
	}
	for _, u := range l.pages {
		text, err := l.fetchPage(ctx, u)
		if err != nil {
			l.logger.Warn("skipping activity page", "url", u, "error", err)
			continue
		}
		sections = append(sections, text)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	return strings.Join(sections, "\n\n"), nil
}

func (l *Loader) resolve(ctx context.Context, arg string) (string, error) {
	switch {
	case arg == "":
		return "", nil
	case strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://"):
		text, err := l.fetchFeed(ctx, arg)
		if err == nil {
			return text, nil
		}
		l.logger.Debug("not a feed, reading as page", "url", arg, "error", err)
		text, err = l.fetchPage(ctx, arg)
		if err != nil {
			l.logger.Warn("skipping activity url", "url", arg, "error", err)
			return "", nil
		}
		return text, nil
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", fmt.Errorf("read activity file: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return arg, nil
}

func (l *Loader) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", rawURL, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func (l *Loader) fetchFeed(ctx context.Context, rawURL string) (string, error) {
	body, err := l.get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return "", fmt.Errorf("parse feed: %w", err)
	}

	var b strings.Builder
	title := feed.Title
	if title == "" {
		title = rawURL
	}
	fmt.Fprintf(&b, "Recent updates from %s:", title)

	count := 0
	for _, item := range feed.Items {
		if item == nil || count >= l.maxItems {
			continue
		}
		count++
		fmt.Fprintf(&b, "\n- %s", strings.TrimSpace(item.Title))
		if item.PublishedParsed != nil {
			fmt.Fprintf(&b, " (%s)", item.PublishedParsed.Format("2006-01-02"))
		}
		if item.Link != "" {
			fmt.Fprintf(&b, " %s", item.Link)
		}
		if summary := summarize(firstNonEmpty(item.Description, item.Content)); summary != "" {
			fmt.Fprintf(&b, ": %s", summary)
		}
	}
	return b.String(), nil
}

func (l *Loader) fetchPage(ctx context.Context, rawURL string) (string, error) {
	body, err := l.get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse document: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		title = strings.TrimSpace(og)
	}
	description, _ := doc.Find(`meta[name="description"]`).Attr("content")
	if og, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		description = og
	}

	var headings []string
	doc.Find("h1, h2").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if text := strings.Join(strings.Fields(s.Text()), " "); text != "" {
			headings = append(headings, text)
		}
		return len(headings) < l.maxItems
	})

	if title == "" && description == "" && len(headings) == 0 {
		return "", fmt.Errorf("no readable content at %s", rawURL)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Page %s", rawURL)
	if title != "" {
		fmt.Fprintf(&b, " (%s)", title)
	}
	b.WriteString(":")
	if d := summarize(description); d != "" {
		fmt.Fprintf(&b, "\n%s", d)
	}
	for _, h := range headings {
		fmt.Fprintf(&b, "\n- %s", h)
	}
	return b.String(), nil
}

// summarize drops markup and squeezes whitespace, cutting at maxSummaryLen runes.
func summarize(s string) string {
	if s == "" {
		return ""
	}
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
		s = doc.Text()
	}
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxSummaryLen {
		s = string(runes[:maxSummaryLen]) + "..."
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
