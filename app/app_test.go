package app

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/innerlog/journal-tui/client"
	"github.com/innerlog/journal-tui/msg"
	"github.com/innerlog/journal-tui/session"
)

func newTestModel() Model {
	id := session.Identity{Email: "maya@example.com", DisplayName: "Maya"}
	store := session.NewStore(id)
	api := client.New("http://127.0.0.1:0", nil)
	ch := client.NewChannel("http://127.0.0.1:0", "", id.Email, nil)
	return New(api, ch, store, "test", nil)
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	updated, _ := m.Update(k)
	next, ok := updated.(Model)
	require.True(t, ok)
	return next
}

func TestChatInputAcceptsTyping(t *testing.T) {
	m := newTestModel()
	_ = m.Init()

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, "h", m.input.Value(), "the input must be focused from construction")
}

func TestChatInputRefocusedAfterJournal(t *testing.T) {
	m := newTestModel()
	_ = m.Init()
	require.NoError(t, m.store.Apply(session.ConversationUpdate{
		Email: "maya@example.com",
		Task:  "write about today",
	}))

	m = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	require.Equal(t, ViewJournal, m.view)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.Equal(t, ViewChat, m.view)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	assert.Equal(t, "h", m.input.Value(), "returning to chat must refocus the input")
}

func TestOpenJournalWithoutTaskFetches(t *testing.T) {
	m := newTestModel()

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)

	assert.Equal(t, ViewJournal, m.view, "an empty handoff still enters the view")
	assert.NotNil(t, cmd, "the view must fetch the task it was not handed")
	assert.Contains(t, m.journal.View(), "Fetching your task")

	updated, _ = m.Update(msg.TaskSnapshotResult{Task: "name one fear"})
	m = updated.(Model)
	assert.Equal(t, "name one fear", m.journal.Description())
}

func TestClientPairsToMessages(t *testing.T) {
	pairs := []client.MessagePair{
		{User: "hello", AI: "hi Maya"},
		{User: "I'm tired", AI: ""},
	}

	got := clientPairsToMessages(pairs)
	want := []session.Message{
		{Author: session.AuthorUser, Text: "hello"},
		{Author: session.AuthorAssistant, Text: "hi Maya"},
		{Author: session.AuthorUser, Text: "I'm tired"},
	}
	assert.Equal(t, want, got, "empty halves of a pair are skipped")
}

func TestMessagesToPairs(t *testing.T) {
	t.Run("pairs alternating messages", func(t *testing.T) {
		msgs := []session.Message{
			{Author: session.AuthorUser, Text: "hello"},
			{Author: session.AuthorAssistant, Text: "hi"},
			{Author: session.AuthorUser, Text: "bye"},
		}
		got := messagesToPairs(msgs)
		want := []msg.MessagePair{
			{User: "hello", AI: "hi"},
			{User: "bye"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("assistant opener stands alone", func(t *testing.T) {
		msgs := []session.Message{
			{Author: session.AuthorAssistant, Text: "welcome back"},
			{Author: session.AuthorUser, Text: "thanks"},
		}
		got := messagesToPairs(msgs)
		want := []msg.MessagePair{
			{AI: "welcome back"},
			{User: "thanks"},
		}
		assert.Equal(t, want, got)
	})

	t.Run("round trip preserves order", func(t *testing.T) {
		msgs := []session.Message{
			{Author: session.AuthorUser, Text: "a"},
			{Author: session.AuthorAssistant, Text: "b"},
			{Author: session.AuthorUser, Text: "c"},
			{Author: session.AuthorAssistant, Text: "d"},
		}
		back := msgPairsToMessages(messagesToPairs(msgs))
		assert.Equal(t, msgs, back)
	})
}

func TestViewString(t *testing.T) {
	assert.Equal(t, "chat", ViewChat.String())
	assert.Equal(t, "journal", ViewJournal.String())
	assert.Equal(t, "dashboard", ViewDashboard.String())
}
