package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/journal-tui/markdown"
	"github.com/innerlog/journal-tui/msg"
	"github.com/innerlog/journal-tui/style"
)

// noticeLevel classifies system notices rendered between messages.
type noticeLevel int

const (
	noticeInfo noticeLevel = iota
	noticeWarning
	noticeError
)

type notice struct {
	text  string
	level noticeLevel
}

// ChatModel is a scrollable viewport over the conversation transcript.
// The transcript is replaced wholesale from server pushes; the model never
// appends user messages locally and shows exactly what the server last
// sent. System notices (reconnects, errors) are kept separately and
// rendered below the transcript.
type ChatModel struct {
	vp         viewport.Model
	pairs      []msg.MessagePair
	notices    []notice
	taskBanner string
	width      int
	height     int
}

// NewChat constructs a ChatModel sized to width x height.
func NewChat(width, height int) ChatModel {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return ChatModel{
		vp:     vp,
		width:  width,
		height: height,
	}
}

// SetTranscript replaces the full conversation. Pushes always carry the
// whole transcript, so there is nothing to merge.
func (m *ChatModel) SetTranscript(pairs []msg.MessagePair) {
	m.pairs = pairs
	m.refresh()
}

// Pairs returns the current transcript.
func (m *ChatModel) Pairs() []msg.MessagePair {
	return m.pairs
}

// AddSystemMessage appends a dimmed informational notice.
func (m *ChatModel) AddSystemMessage(text string) {
	m.notices = append(m.notices, notice{text: text, level: noticeInfo})
	m.refresh()
}

// AddSystemWarning appends a warning notice.
func (m *ChatModel) AddSystemWarning(text string) {
	m.notices = append(m.notices, notice{text: text, level: noticeWarning})
	m.refresh()
}

// AddSystemError appends an error notice.
func (m *ChatModel) AddSystemError(text string) {
	m.notices = append(m.notices, notice{text: text, level: noticeError})
	m.refresh()
}

// SetTaskBanner shows the dismissible call-to-action for an assigned task.
func (m *ChatModel) SetTaskBanner(description string) {
	m.taskBanner = description
	m.refresh()
}

// ClearTaskBanner hides the call-to-action.
func (m *ChatModel) ClearTaskBanner() {
	m.taskBanner = ""
	m.refresh()
}

// HasTaskBanner reports whether the call-to-action is visible.
func (m ChatModel) HasTaskBanner() bool {
	return m.taskBanner != ""
}

// SetSize resizes the underlying viewport.
func (m *ChatModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.vp.Width = width
	m.vp.Height = height
	m.refresh()
}

// ScrollToTop jumps the viewport to the oldest message.
func (m *ChatModel) ScrollToTop() {
	m.vp.GotoTop()
}

// ScrollToBottom jumps the viewport to the newest message.
func (m *ChatModel) ScrollToBottom() {
	m.vp.GotoBottom()
}

// Init satisfies tea.Model.
func (m ChatModel) Init() tea.Cmd {
	return nil
}

// Update forwards keyboard and mouse events to the viewport.
func (m ChatModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(message)
	return m, cmd
}

// View returns the rendered viewport content.
func (m ChatModel) View() string {
	return m.vp.View()
}

// refresh re-renders everything into the viewport and scrolls to the bottom.
func (m *ChatModel) refresh() {
	m.vp.SetContent(m.renderAll())
	m.vp.GotoBottom()
}

func (m *ChatModel) renderAll() string {
	var sb strings.Builder

	if len(m.pairs) == 0 && len(m.notices) == 0 {
		sb.WriteString(style.Faint.Render("  No messages yet. Share what's on your mind."))
	}

	for i, pair := range m.pairs {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(renderPair(pair))
	}

	for _, n := range m.notices {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		switch n.level {
		case noticeWarning:
			sb.WriteString(style.WarnText.Render(n.text))
		case noticeError:
			sb.WriteString(style.ErrorText.Render(n.text))
		default:
			sb.WriteString(style.Faint.Render(n.text))
		}
	}

	if m.taskBanner != "" {
		sb.WriteString("\n\n")
		sb.WriteString(renderTaskBanner(m.taskBanner, m.width))
	}

	return sb.String()
}

// renderPair converts one user/assistant exchange to a display string.
func renderPair(pair msg.MessagePair) string {
	var sb strings.Builder
	if pair.User != "" {
		sb.WriteString(style.UserLabel.Render("❯ You"))
		sb.WriteString("\n")
		sb.WriteString(pair.User)
	}
	if pair.AI != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(style.AssistantLabel.Render("✦ Guide"))
		sb.WriteString("\n")
		sb.WriteString(markdown.Render(pair.AI))
	}
	return sb.String()
}

// renderTaskBanner draws the call-to-action box shown when a task is
// assigned. The banner is dismissible; it is the only path that hands the
// task text to the journal view without a refetch.
func renderTaskBanner(description string, width int) string {
	inner := width - 6
	if inner < 20 {
		inner = 20
	}
	text := style.TaskBannerText.Render("A reflective task is waiting for you") + "\n" +
		truncateLine(description, inner) + "\n" +
		style.Hint.Render("ctrl+t open journal · esc dismiss")
	return style.TaskBannerBox.Width(inner).Render(text)
}

// truncateLine shortens a single line to at most max runes.
func truncateLine(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
