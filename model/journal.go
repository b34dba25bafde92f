package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/journal-tui/markdown"
	"github.com/innerlog/journal-tui/style"
)

// JournalModel is the reflective task view: the assigned prompt, a
// multi-line response area, and the feedback the assistant sends back after
// submission.
type JournalModel struct {
	ta          textarea.Model
	description string
	feedback    string
	submitted   bool
	loading     bool
	width       int
}

// NewJournal returns a JournalModel with an empty response area.
func NewJournal() JournalModel {
	ta := textarea.New()
	ta.Placeholder = "Write your response here…"
	ta.SetHeight(6)
	ta.CharLimit = 8000
	return JournalModel{ta: ta, width: 80}
}

// SetDescription sets the task prompt. A new description resets the
// response state: a replaced task is a fresh task.
func (m *JournalModel) SetDescription(desc string) {
	if desc == m.description {
		return
	}
	m.description = desc
	m.feedback = ""
	m.submitted = false
	m.loading = false
	m.ta.Reset()
}

// Description returns the current task prompt.
func (m JournalModel) Description() string {
	return m.description
}

// SetFeedback records the assistant's feedback on the submitted response.
func (m *JournalModel) SetFeedback(fb string) {
	m.feedback = fb
}

// MarkSubmitted flips the view into its waiting-for-feedback state.
func (m *JournalModel) MarkSubmitted() {
	m.submitted = true
}

// SetLoading marks the description as being fetched (deep-link entry
// without a handoff).
func (m *JournalModel) SetLoading(v bool) {
	m.loading = v
}

// SetWidth resizes the view.
func (m *JournalModel) SetWidth(width int) {
	m.width = width
	m.ta.SetWidth(width - 4)
}

// Value returns the raw response text.
func (m JournalModel) Value() string {
	return m.ta.Value()
}

// Focus gives keyboard focus to the response area.
func (m *JournalModel) Focus() tea.Cmd {
	return m.ta.Focus()
}

// Blur removes keyboard focus.
func (m *JournalModel) Blur() {
	m.ta.Blur()
}

// Init satisfies tea.Model.
func (m JournalModel) Init() tea.Cmd {
	return nil
}

// Update forwards events to the textarea while it has focus.
func (m JournalModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(message)
	return m, cmd
}

// View renders the task prompt, the response area and any feedback.
func (m JournalModel) View() string {
	var sb strings.Builder
	sb.WriteString(style.TaskTitle.Render("Journal Task"))
	sb.WriteString("\n\n")

	switch {
	case m.loading:
		sb.WriteString(style.Faint.Render("Fetching your task…"))
	case m.description == "":
		sb.WriteString(style.Faint.Render("No task assigned yet. Keep the conversation going."))
	default:
		sb.WriteString(markdown.RenderWidth(m.description, m.width-4))
	}
	sb.WriteString("\n\n")

	sb.WriteString(m.ta.View())
	sb.WriteString("\n")

	if m.submitted && m.feedback == "" {
		sb.WriteString("\n")
		sb.WriteString(style.Faint.Render("Submitted. Waiting for feedback…"))
	}
	if m.feedback != "" {
		sb.WriteString("\n")
		sb.WriteString(style.FeedbackPanel.Render(markdown.RenderWidth(m.feedback, m.width-8)))
	}

	sb.WriteString("\n")
	sb.WriteString(style.Hint.Render("ctrl+s submit · esc back to chat"))
	return sb.String()
}
