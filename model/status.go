package model

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/innerlog/journal-tui/style"
)

// ConnState is the channel connection state shown in the footer. Emits are
// not queued while disconnected, so the user needs to see when the channel
// is down to know a resend is required.
type ConnState int

const (
	ConnDisconnected ConnState = iota
	ConnConnecting
	ConnConnected
	ConnReconnecting
)

// StatusModel renders the bottom status line: connection indicator, session
// state, and key hints for the active view.
type StatusModel struct {
	conn             ConnState
	reconnectAttempt int
	maxReconnects    int
	sessionClosed    bool
	hints            string
}

// NewStatus returns a StatusModel in the connecting state.
func NewStatus(maxReconnects int) StatusModel {
	return StatusModel{conn: ConnConnecting, maxReconnects: maxReconnects}
}

// SetConnState updates the connection indicator.
func (m *StatusModel) SetConnState(s ConnState) {
	m.conn = s
	if s != ConnReconnecting {
		m.reconnectAttempt = 0
	}
}

// SetReconnecting shows the attempt counter.
func (m *StatusModel) SetReconnecting(attempt int) {
	m.conn = ConnReconnecting
	m.reconnectAttempt = attempt
}

// SetSessionClosed marks the session as completed.
func (m *StatusModel) SetSessionClosed(v bool) {
	m.sessionClosed = v
}

// SetHints replaces the per-view key hints.
func (m *StatusModel) SetHints(hints string) {
	m.hints = hints
}

// Init satisfies tea.Model.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update satisfies tea.Model; StatusModel is driven by setter calls.
func (m StatusModel) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View renders the status line.
func (m StatusModel) View() string {
	var conn string
	switch m.conn {
	case ConnConnected:
		conn = style.StatusConnected.Render("● connected")
	case ConnConnecting:
		conn = style.StatusReconnecting.Render("◌ connecting")
	case ConnReconnecting:
		conn = style.StatusReconnecting.Render(
			fmt.Sprintf("◌ reconnecting %d/%d", m.reconnectAttempt, m.maxReconnects))
	default:
		conn = style.StatusDisconnected.Render("○ disconnected (messages will not send)")
	}

	line := conn
	if m.sessionClosed {
		line += style.Faint.Render(" · session complete")
	}
	if m.hints != "" {
		line += style.Faint.Render(" · ") + style.Hint.Render(m.hints)
	}
	return " " + line
}
