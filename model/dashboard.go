package model

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/journal-tui/markdown"
	"github.com/innerlog/journal-tui/msg"
	"github.com/innerlog/journal-tui/style"
)

// DashboardModel renders the progress view: completed journal tasks with
// their feedback and scores, plus the most recent session report. Data is
// fetched one-shot when the view is entered; it is not subscribed to
// channel pushes.
type DashboardModel struct {
	entries  []msg.JournalReport
	report   string
	loading  bool
	fetchErr bool
	width    int
}

// NewDashboard returns an empty DashboardModel.
func NewDashboard() DashboardModel {
	return DashboardModel{width: 80}
}

// SetEntries replaces the completed-task list.
func (m *DashboardModel) SetEntries(entries []msg.JournalReport) {
	m.entries = entries
	m.loading = false
	m.fetchErr = false
}

// SetReport sets the latest session report text.
func (m *DashboardModel) SetReport(report string) {
	m.report = report
}

// SetLoading marks the dashboard as waiting for its fetch.
func (m *DashboardModel) SetLoading(v bool) {
	m.loading = v
}

// SetFetchFailed marks the fetch as failed; the view degrades to a notice
// instead of blocking.
func (m *DashboardModel) SetFetchFailed() {
	m.loading = false
	m.fetchErr = true
}

// SetWidth resizes the view.
func (m *DashboardModel) SetWidth(width int) {
	m.width = width
}

// Init satisfies tea.Model.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model; the dashboard is display-only.
func (m DashboardModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the progress list and report.
func (m DashboardModel) View() string {
	var sb strings.Builder
	sb.WriteString(style.TaskTitle.Render("Your Progress"))
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(style.Faint.Render("Loading your progress…"))
	case m.fetchErr:
		sb.WriteString(style.WarnText.Render("Could not load progress. Press r to retry."))
	case len(m.entries) == 0 && m.report == "":
		sb.WriteString(style.Faint.Render("Nothing here yet. Complete a journal task to see progress."))
	default:
		for i, e := range m.entries {
			sb.WriteString(m.renderEntry(i+1, e))
			sb.WriteString("\n")
		}
	}

	if m.report != "" {
		sb.WriteString("\n")
		sb.WriteString(style.Bold.Render("Latest session report"))
		sb.WriteString("\n")
		sb.WriteString(style.ReportBox.Render(markdown.RenderWidth(m.report, m.width-10)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(style.Hint.Render("esc back to chat · r refresh"))
	return sb.String()
}

func (m DashboardModel) renderEntry(n int, e msg.JournalReport) string {
	var sb strings.Builder
	sb.WriteString(style.EntryDone.Render("✔"))
	sb.WriteString(fmt.Sprintf(" %d. %s", n, e.TaskName))
	if e.PerformanceScore != "" {
		sb.WriteString("  ")
		sb.WriteString(style.ScoreLabel.Render("[" + e.PerformanceScore + "]"))
	}
	if e.CompletionDate != "" {
		sb.WriteString("  ")
		sb.WriteString(style.Faint.Render(e.CompletionDate))
	}
	if e.TaskFeedback != "" {
		sb.WriteString("\n     ")
		sb.WriteString(style.Faint.Render(truncateLine(e.TaskFeedback, m.width-8)))
	}
	return sb.String()
}
