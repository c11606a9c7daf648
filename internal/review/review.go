package review

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketing_engine/internal/domain"
)

// Reviewer applies approval decisions to stored posts.
type Reviewer interface {
	Approve(ctx context.Context, id string) (*domain.PostDraft, error)
	Edit(ctx context.Context, id, content string) (*domain.PostDraft, error)
	Reject(ctx context.Context, id, reason string) (*domain.PostDraft, error)
}

type mode int

const (
	modeBrowse mode = iota
	modeEdit
	modeReject
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	reasonStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801"))
)

type postItem struct {
	post domain.PostDraft
}

func (i postItem) Title() string {
	return fmt.Sprintf("[%s] %s  %s",
		strings.ToUpper(string(i.post.Platform)),
		i.post.Stream,
		i.post.ScheduledTime.Format("Mon Jan 02 15:04"))
}

func (i postItem) Description() string {
	line := strings.ReplaceAll(i.post.EffectiveContent(), "\n", " ")
	if len([]rune(line)) > 80 {
		line = string([]rune(line)[:77]) + "..."
	}
	return line
}

func (i postItem) FilterValue() string { return i.post.EffectiveContent() }

// decidedMsg carries the result of one approval call back into the model.
type decidedMsg struct {
	action domain.ApprovalAction
	post   *domain.PostDraft
	err    error
}

// Tally counts what happened during a review session.
type Tally struct {
	Approved int
	Edited   int
	Rejected int
	Skipped  int
	Failed   int
}

// Model walks through pending posts one at a time. Every decision removes the
// post from the list, and the session ends once the list is empty.
type Model struct {
	ctx      context.Context
	reviewer Reviewer

	list   list.Model
	input  textarea.Model
	mode   mode
	busy   bool
	status string
	failed bool
	tally  Tally

	width  int
	height int
}

func New(ctx context.Context, reviewer Reviewer, posts []domain.PostDraft) *Model {
	items := make([]list.Item, len(posts))
	for i := range posts {
		items[i] = postItem{post: posts[i]}
	}

	l := list.New(items, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Pending Posts"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	input := textarea.New()
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.SetWidth(78)
	input.SetHeight(6)

	return &Model{
		ctx:      ctx,
		reviewer: reviewer,
		list:     l,
		input:    input,
	}
}

// Tally returns the decisions made so far.
func (m *Model) Tally() Tally { return m.tally }

// Remaining is the number of posts not yet reviewed.
func (m *Model) Remaining() int { return len(m.list.Items()) }

func (m *Model) Init() tea.Cmd { return nil }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(max(20, msg.Width-4), max(5, msg.Height-8))
		m.input.SetWidth(max(20, msg.Width-6))
		return m, nil

	case decidedMsg:
		return m.handleDecided(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		if m.mode != modeBrowse {
			return m.updateInput(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.mode != modeBrowse {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	current, ok := m.current()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "a":
		if !ok {
			return m, nil
		}
		return m, m.decide(domain.ActionApprove, current.ID, "")
	case "e":
		if !ok {
			return m, nil
		}
		m.mode = modeEdit
		m.input.Placeholder = "Edited content"
		m.input.SetValue(current.EffectiveContent())
		m.status = ""
		return m, m.input.Focus()
	case "r":
		if !ok {
			return m, nil
		}
		m.mode = modeReject
		m.input.Placeholder = "Reason (optional)"
		m.input.SetValue("")
		m.status = ""
		return m, m.input.Focus()
	case "s":
		if !ok {
			return m, nil
		}
		m.tally.Skipped++
		m.setStatus(false, "skipped "+current.ID)
		return m, m.removeCurrent()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case "ctrl+s":
		current, ok := m.current()
		if !ok {
			m.mode = modeBrowse
			return m, nil
		}
		value := m.input.Value()
		action := domain.ActionReject
		if m.mode == modeEdit {
			action = domain.ActionEdit
			if strings.TrimSpace(value) == "" {
				m.setStatus(true, "content cannot be empty")
				return m, nil
			}
		}
		m.input.Blur()
		return m, m.decide(action, current.ID, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) decide(action domain.ApprovalAction, id, text string) tea.Cmd {
	m.busy = true
	ctx, reviewer := m.ctx, m.reviewer
	return func() tea.Msg {
		var (
			post *domain.PostDraft
			err  error
		)
		switch action {
		case domain.ActionApprove:
			post, err = reviewer.Approve(ctx, id)
		case domain.ActionEdit:
			post, err = reviewer.Edit(ctx, id, text)
		default:
			post, err = reviewer.Reject(ctx, id, text)
		}
		return decidedMsg{action: action, post: post, err: err}
	}
}

func (m *Model) handleDecided(msg decidedMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.mode = modeBrowse
	if msg.err != nil {
		m.tally.Failed++
		m.setStatus(true, msg.err.Error())
		return m, nil
	}

	switch msg.action {
	case domain.ActionApprove:
		m.tally.Approved++
	case domain.ActionEdit:
		m.tally.Edited++
	default:
		m.tally.Rejected++
	}
	m.setStatus(false, fmt.Sprintf("%s is now %s", msg.post.ID, msg.post.ApprovalStatus))
	return m, m.removeCurrent()
}

func (m *Model) removeCurrent() tea.Cmd {
	idx := m.list.Index()
	m.list.RemoveItem(idx)
	n := len(m.list.Items())
	if n == 0 {
		return tea.Quit
	}
	m.list.Select(min(idx, n-1))
	return nil
}

func (m *Model) current() (domain.PostDraft, bool) {
	item, ok := m.list.SelectedItem().(postItem)
	if !ok {
		return domain.PostDraft{}, false
	}
	return item.post, true
}

func (m *Model) setStatus(failed bool, text string) {
	m.failed = failed
	m.status = text
}

func (m *Model) View() string {
	var b strings.Builder

	current, ok := m.current()
	if !ok {
		b.WriteString(titleStyle.Render("Review complete"))
		b.WriteString("\n")
		b.WriteString(m.renderTally())
		return b.String()
	}

	switch m.mode {
	case modeBrowse:
		b.WriteString(m.list.View())
		b.WriteString("\n")
		b.WriteString(m.renderPost(current))
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("a approve · e edit · r reject · s skip · q quit"))
	case modeEdit:
		b.WriteString(titleStyle.Render("Edit " + current.ID))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("ctrl+s save · esc cancel"))
	case modeReject:
		b.WriteString(titleStyle.Render("Reject " + current.ID))
		b.WriteString("\n")
		b.WriteString(m.renderPost(current))
		b.WriteString("\n")
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render("ctrl+s reject · esc cancel"))
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(okStyle.Render(m.status))
		}
	}
	return b.String()
}

func (m *Model) renderPost(p domain.PostDraft) string {
	lines := []string{p.EffectiveContent()}
	if len(p.Hashtags) > 0 {
		tags := make([]string, len(p.Hashtags))
		for i, tag := range p.Hashtags {
			tags[i] = "#" + strings.TrimPrefix(tag, "#")
		}
		lines = append(lines, "", hintStyle.Render(strings.Join(tags, " ")))
	}
	if p.Subreddit != nil {
		lines = append(lines, hintStyle.Render("r/"+*p.Subreddit))
	}
	if p.EditedContent != nil {
		lines = append(lines, reasonStyle.Render("edited"))
	}
	width := 78
	if m.width > 0 {
		width = max(20, m.width-6)
	}
	return contentStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTally() string {
	t := m.tally
	return fmt.Sprintf("approved %d · edited %d · rejected %d · skipped %d · failed %d",
		t.Approved, t.Edited, t.Rejected, t.Skipped, t.Failed)
}

// Run starts the interactive review and returns the session tally.
func Run(ctx context.Context, reviewer Reviewer, posts []domain.PostDraft) (Tally, error) {
	m := New(ctx, reviewer, posts)
	final, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return m.Tally(), fmt.Errorf("run review: %w", err)
	}
	if fm, ok := final.(*Model); ok {
		return fm.Tally(), nil
	}
	return m.Tally(), nil
}
