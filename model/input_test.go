package model

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyMsg(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestInputHistory(t *testing.T) {
	m := NewInput()
	m.Submit("first")
	m.Submit("second")

	up := func() {
		updated, _ := m.Update(keyMsg(tea.KeyUp))
		m = updated.(InputModel)
	}
	down := func() {
		updated, _ := m.Update(keyMsg(tea.KeyDown))
		m = updated.(InputModel)
	}

	up()
	assert.Equal(t, "second", m.Value())
	up()
	assert.Equal(t, "first", m.Value())
	up()
	assert.Equal(t, "first", m.Value(), "walking past the oldest entry sticks")

	down()
	assert.Equal(t, "second", m.Value())
	down()
	assert.Equal(t, "", m.Value(), "walking past the newest entry clears")
}

func TestInputTabComplete(t *testing.T) {
	m := NewInput()
	m.SetCommands([]string{"/task", "/dashboard", "/done"})

	tab := func() {
		updated, _ := m.Update(keyMsg(tea.KeyTab))
		m = updated.(InputModel)
	}

	t.Run("cycles matches for a slash prefix", func(t *testing.T) {
		m.SetValue("/d")
		tab()
		assert.Equal(t, "/dashboard", m.Value())
		tab()
		assert.Equal(t, "/done", m.Value())
		tab()
		assert.Equal(t, "/dashboard", m.Value(), "wraps around")
	})

	t.Run("ignores tab without a slash prefix", func(t *testing.T) {
		m.Reset()
		m.SetValue("plain text")
		tab()
		assert.Equal(t, "plain text", m.Value())
	})
}

func TestInputSubmitRecordsHistory(t *testing.T) {
	m := NewInput()
	m.SetValue("hello")
	m.Submit("hello")

	require.Empty(t, m.Value(), "submit clears the buffer")

	updated, _ := m.Update(keyMsg(tea.KeyUp))
	m = updated.(InputModel)
	assert.Equal(t, "hello", m.Value())
}
