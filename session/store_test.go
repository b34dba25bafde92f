package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maya = Identity{Email: "maya@example.com", DisplayName: "Maya"}

func transcript(texts ...string) []Message {
	out := make([]Message, 0, len(texts))
	for i, text := range texts {
		author := AuthorUser
		if i%2 == 1 {
			author = AuthorAssistant
		}
		out = append(out, Message{Author: author, Text: text})
	}
	return out
}

func TestHydrate(t *testing.T) {
	t.Run("populates empty store", func(t *testing.T) {
		s := NewStore(maya)
		s.Hydrate(Snapshot{
			Transcript: transcript("hello", "hi Maya"),
			Task:       "Write about your morning",
		})

		assert.Len(t, s.Transcript(), 2)
		assert.Equal(t, "Write about your morning", s.ActiveTask().Description)
		assert.True(t, s.Hydrated())
		assert.False(t, s.Closed())
	})

	t.Run("is a no-op after a push", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(ConversationUpdate{
			Email:      maya.Email,
			Transcript: transcript("fresh", "fresher"),
			Task:       "current task",
		}))

		// A snapshot that resolved slowly is stale by arrival order.
		s.Hydrate(Snapshot{Transcript: transcript("old"), Task: "old task"})

		assert.Equal(t, transcript("fresh", "fresher"), s.Transcript())
		assert.Equal(t, "current task", s.ActiveTask().Description)
	})

	t.Run("is a no-op after session close", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(SessionComplete{Email: maya.Email, Report: "done"}))

		s.Hydrate(Snapshot{Transcript: transcript("late")})
		assert.Empty(t, s.Transcript())
	})
}

func TestApplyConversationUpdate(t *testing.T) {
	t.Run("replaces the transcript wholesale", func(t *testing.T) {
		s := NewStore(maya)
		s.Hydrate(Snapshot{Transcript: transcript("a", "b", "c")})

		require.NoError(t, s.Apply(ConversationUpdate{
			Email:      maya.Email,
			Transcript: transcript("a"),
		}))
		assert.Len(t, s.Transcript(), 1, "push carries full state; nothing is merged")
	})

	t.Run("applying the same push twice is harmless", func(t *testing.T) {
		s := NewStore(maya)
		push := ConversationUpdate{
			Email:      maya.Email,
			Transcript: transcript("x", "y"),
			Task:       "reflect",
		}
		require.NoError(t, s.Apply(push))
		require.NoError(t, s.Apply(push))

		assert.Equal(t, transcript("x", "y"), s.Transcript())
		assert.Equal(t, "reflect", s.ActiveTask().Description)
	})

	t.Run("discards pushes for other identities", func(t *testing.T) {
		s := NewStore(maya)
		s.Hydrate(Snapshot{Transcript: transcript("mine")})

		err := s.Apply(ConversationUpdate{
			Email:      "other@example.com",
			Transcript: transcript("not mine"),
		})
		assert.ErrorIs(t, err, ErrIdentityMismatch)
		assert.Equal(t, transcript("mine"), s.Transcript(), "state must be untouched")
	})
}

func TestTaskTransitions(t *testing.T) {
	update := func(task string) ConversationUpdate {
		return ConversationUpdate{Email: maya.Email, Task: task}
	}

	t.Run("empty task clears without error", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(update("write a letter")))
		require.NoError(t, s.Apply(update("")))
		assert.False(t, s.ActiveTask().Active())
	})

	t.Run("replaced task drops feedback and submitted flag", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(update("first task")))
		require.NoError(t, s.Apply(TaskFeedback{Email: maya.Email, Feedback: "nice work"}))
		s.MarkTaskSubmitted()

		require.NoError(t, s.Apply(update("second task")))
		task := s.ActiveTask()
		assert.Equal(t, "second task", task.Description)
		assert.Empty(t, task.Feedback)
		assert.False(t, task.Submitted)
	})

	t.Run("unchanged task keeps feedback and submitted flag", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(update("same task")))
		require.NoError(t, s.Apply(TaskFeedback{Email: maya.Email, Feedback: "keep going"}))
		s.MarkTaskSubmitted()

		require.NoError(t, s.Apply(update("same task")))
		task := s.ActiveTask()
		assert.Equal(t, "keep going", task.Feedback)
		assert.True(t, task.Submitted)
	})

	t.Run("MarkTaskSubmitted without a task is a no-op", func(t *testing.T) {
		s := NewStore(maya)
		s.MarkTaskSubmitted()
		assert.False(t, s.ActiveTask().Submitted)
	})
}

func TestSessionClose(t *testing.T) {
	t.Run("report closes the session", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(SessionComplete{Email: maya.Email, Report: "You grew this week."}))

		assert.True(t, s.Closed())
		require.NotNil(t, s.Report())
		assert.Equal(t, "You grew this week.", s.Report().Text)
	})

	t.Run("transcript and task pushes after close are discarded", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(ConversationUpdate{Email: maya.Email, Transcript: transcript("a", "b")}))
		require.NoError(t, s.Apply(SessionComplete{Email: maya.Email, Report: "done"}))

		err := s.Apply(ConversationUpdate{Email: maya.Email, Transcript: transcript("late")})
		assert.ErrorIs(t, err, ErrSessionClosed)

		err = s.Apply(TaskFeedback{Email: maya.Email, Feedback: "late feedback"})
		assert.ErrorIs(t, err, ErrSessionClosed)

		assert.Equal(t, transcript("a", "b"), s.Transcript())
	})

	t.Run("StartNewSession reopens a closed store", func(t *testing.T) {
		s := NewStore(maya)
		require.NoError(t, s.Apply(ConversationUpdate{Email: maya.Email, Transcript: transcript("a"), Task: "t"}))
		require.NoError(t, s.Apply(SessionComplete{Email: maya.Email, Report: "done"}))

		s.StartNewSession()

		assert.False(t, s.Closed())
		assert.Empty(t, s.Transcript())
		assert.False(t, s.ActiveTask().Active())
		assert.Nil(t, s.Report())

		require.NoError(t, s.Apply(ConversationUpdate{Email: maya.Email, Transcript: transcript("again")}))
		assert.Len(t, s.Transcript(), 1)
	})
}

// TestSessionLifecycle walks one full session the way the wire would drive
// it: hydrate, chat, task assignment, feedback, completion.
func TestSessionLifecycle(t *testing.T) {
	s := NewStore(maya)

	s.Hydrate(Snapshot{})
	assert.True(t, s.Hydrated())

	require.NoError(t, s.Apply(ConversationUpdate{
		Email:      maya.Email,
		Transcript: transcript("I had a rough day", "Tell me more about it"),
	}))
	require.NoError(t, s.Apply(ConversationUpdate{
		Email:      maya.Email,
		Transcript: transcript("I had a rough day", "Tell me more about it", "Work was stressful", "Let's reflect on that"),
		Task:       "Write three things that went well today",
	}))
	assert.True(t, s.ActiveTask().Active())

	s.MarkTaskSubmitted()
	require.NoError(t, s.Apply(TaskFeedback{Email: maya.Email, Feedback: "Honest and specific. Well done."}))
	assert.Equal(t, "Honest and specific. Well done.", s.ActiveTask().Feedback)

	require.NoError(t, s.Apply(SessionComplete{Email: maya.Email, Report: "A strong session."}))
	assert.True(t, s.Closed())
	assert.Len(t, s.Transcript(), 4, "transcript survives the close")
}
