package model

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/journal-tui/style"
)

// InputModel is the chat input bar with submit history and slash-command
// autocomplete.
//
//   - Up/Down walk through previously submitted inputs
//   - Tab cycles matching slash commands when the buffer starts with "/"
type InputModel struct {
	ti         textinput.Model
	history    []string
	historyIdx int // one past the last entry when not navigating

	commands   []string
	tabIdx     int // -1 = not cycling
	tabMatches []string
}

// NewInput returns a ready-to-use InputModel.
func NewInput() InputModel {
	ti := textinput.New()
	ti.Placeholder = "Write to your guide, or type / for commands…"
	ti.CharLimit = 4096
	return InputModel{
		ti:     ti,
		tabIdx: -1,
	}
}

// SetCommands replaces the slash-command list used for Tab autocomplete.
func (m *InputModel) SetCommands(cmds []string) {
	m.commands = cmds
}

// SetWidth resizes the input field.
func (m *InputModel) SetWidth(width int) {
	m.ti.Width = width - 4
}

// Focus gives keyboard focus to the input.
func (m *InputModel) Focus() tea.Cmd {
	return m.ti.Focus()
}

// Blur removes keyboard focus.
func (m *InputModel) Blur() {
	m.ti.Blur()
}

// Value returns the current raw text.
func (m InputModel) Value() string {
	return m.ti.Value()
}

// SetValue replaces the buffer contents.
func (m *InputModel) SetValue(v string) {
	m.ti.SetValue(v)
	m.ti.CursorEnd()
}

// Reset clears the field and autocomplete state.
func (m *InputModel) Reset() {
	m.historyIdx = len(m.history)
	m.ti.SetValue("")
	m.tabIdx = -1
	m.tabMatches = nil
}

// Submit records text in history and clears the field.
func (m *InputModel) Submit(text string) {
	if text != "" {
		m.history = append(m.history, text)
	}
	m.Reset()
}

// Init satisfies tea.Model.
func (m InputModel) Init() tea.Cmd {
	return nil
}

// Update intercepts Up/Down for history and Tab for autocomplete, then
// delegates remaining keys to the underlying textinput.
func (m InputModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := message.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyUp:
			return m.walkHistory(-1), nil
		case tea.KeyDown:
			return m.walkHistory(+1), nil
		case tea.KeyTab:
			return m.cycleComplete(), nil
		default:
			m.tabIdx = -1
			m.tabMatches = nil
		}
	}

	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(message)
	return m, cmd
}

// View renders the prompt character followed by the textinput.
func (m InputModel) View() string {
	return style.PromptChar.Render("❯ ") + m.ti.View()
}

func (m InputModel) walkHistory(delta int) InputModel {
	if len(m.history) == 0 {
		return m
	}
	next := m.historyIdx + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.history) {
		next = len(m.history)
	}
	m.historyIdx = next

	if next == len(m.history) {
		m.ti.SetValue("")
	} else {
		m.ti.SetValue(m.history[next])
		m.ti.CursorEnd()
	}
	return m
}

func (m InputModel) cycleComplete() InputModel {
	current := m.ti.Value()
	if !strings.HasPrefix(current, "/") {
		return m
	}

	if m.tabIdx == -1 || m.tabMatches == nil {
		for _, c := range m.commands {
			if strings.HasPrefix(c, current) {
				m.tabMatches = append(m.tabMatches, c)
			}
		}
		if len(m.tabMatches) == 0 {
			return m
		}
		m.tabIdx = 0
	} else {
		m.tabIdx = (m.tabIdx + 1) % len(m.tabMatches)
	}

	m.ti.SetValue(m.tabMatches[m.tabIdx])
	m.ti.CursorEnd()
	return m
}
