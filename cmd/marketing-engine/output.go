package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"marketing_engine/internal/domain"
)

const dateLayout = "2006-01-02"

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	goodStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))
	badStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

func renderTable(title string, headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...)
	if title == "" {
		return t.String()
	}
	return headingStyle.Render(title) + "\n" + t.String()
}

// parseWeek reads a YYYY-MM-DD date in loc. Without one it picks the coming Monday,
// or today when today is a Monday.
func parseWeek(value string, loc *time.Location, now time.Time) (time.Time, error) {
	if value == "" {
		today := now.In(loc)
		if today.Weekday() == time.Monday {
			return domain.WeekStart(today), nil
		}
		return domain.NextMonday(today), nil
	}
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", value)
	}
	return t, nil
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func approvalLabel(s domain.ApprovalStatus) string {
	switch s {
	case domain.ApprovalApproved, domain.ApprovalEdited:
		return goodStyle.Render(string(s))
	case domain.ApprovalRejected:
		return badStyle.Render(string(s))
	default:
		return warnStyle.Render(string(s))
	}
}

func publishLabel(s domain.PublishStatus) string {
	switch s {
	case domain.PublishStatusPublished:
		return goodStyle.Render(string(s))
	case domain.PublishStatusFlaggedForReview:
		return badStyle.Render(string(s))
	case domain.PublishStatusFailedRetry, domain.PublishStatusPublishing:
		return warnStyle.Render(string(s))
	default:
		return string(s)
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func printPost(w io.Writer, p *domain.PostDraft, loc *time.Location) {
	rows := [][]string{
		{"ID", p.ID},
		{"Platform", string(p.Platform)},
		{"Stream", string(p.Stream)},
		{"Scheduled", p.ScheduledTime.In(loc).Format("Mon 2006-01-02 15:04 MST")},
		{"Approval", approvalLabel(p.ApprovalStatus)},
		{"Publish", publishLabel(p.PublishStatus)},
	}
	if p.Subreddit != nil {
		rows = append(rows, []string{"Subreddit", "r/" + *p.Subreddit})
	}
	if len(p.Hashtags) > 0 {
		rows = append(rows, []string{"Hashtags", strings.Join(p.Hashtags, " ")})
	}
	if p.CTAURL != "" {
		rows = append(rows, []string{"CTA", p.CTAURL})
	}
	if p.RejectionReason != nil {
		rows = append(rows, []string{"Reason", *p.RejectionReason})
	}
	if p.PostURL != nil {
		rows = append(rows, []string{"URL", *p.PostURL})
	}
	if p.PublishError != nil {
		rows = append(rows, []string{"Error", *p.PublishError})
	}
	rows = append(rows, []string{"Content", p.EffectiveContent()})

	fmt.Fprintln(w, renderTable("", []string{"Field", "Value"}, rows))
}

func postRows(posts []domain.PostDraft, loc *time.Location) [][]string {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			shortID(p.ID),
			p.ScheduledTime.In(loc).Format("Mon 01-02 15:04"),
			string(p.Platform),
			string(p.Stream),
			approvalLabel(p.ApprovalStatus),
			publishLabel(p.PublishStatus),
			truncate(p.EffectiveContent(), 60),
		})
	}
	return rows
}

var postHeaders = []string{"ID", "Scheduled", "Platform", "Stream", "Approval", "Publish", "Content"}
