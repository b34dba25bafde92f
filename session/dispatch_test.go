package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEmit struct {
	event   string
	payload any
}

type fakeEmitter struct {
	emits []recordedEmit
	err   error
}

func (f *fakeEmitter) Emit(event string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.emits = append(f.emits, recordedEmit{event: event, payload: payload})
	return nil
}

func TestDispatcherSendMessage(t *testing.T) {
	t.Run("emits with identity attached", func(t *testing.T) {
		em := &fakeEmitter{}
		d := NewDispatcher(maya, em)

		require.NoError(t, d.SendMessage("  how do I start?  "))
		require.Len(t, em.emits, 1)
		assert.Equal(t, EventSendMessage, em.emits[0].event)
		assert.Equal(t, SendMessagePayload{
			Email:     maya.Email,
			UserName:  maya.DisplayName,
			UserInput: "how do I start?",
		}, em.emits[0].payload)
	})

	t.Run("empty after trim is a silent no-op", func(t *testing.T) {
		em := &fakeEmitter{}
		d := NewDispatcher(maya, em)

		require.NoError(t, d.SendMessage(""))
		require.NoError(t, d.SendMessage("   \n\t "))
		assert.Empty(t, em.emits)
	})

	t.Run("propagates emitter failure", func(t *testing.T) {
		wantErr := errors.New("channel down")
		d := NewDispatcher(maya, &fakeEmitter{err: wantErr})
		assert.ErrorIs(t, d.SendMessage("hello"), wantErr)
	})
}

func TestDispatcherCompleteTask(t *testing.T) {
	t.Run("emits the trimmed response", func(t *testing.T) {
		em := &fakeEmitter{}
		d := NewDispatcher(maya, em)

		require.NoError(t, d.CompleteTask("my reflection\n"))
		require.Len(t, em.emits, 1)
		assert.Equal(t, EventCompleteTask, em.emits[0].event)
		assert.Equal(t, CompleteTaskPayload{
			Email:        maya.Email,
			UserResponse: "my reflection",
		}, em.emits[0].payload)
	})

	t.Run("blank response is a silent no-op", func(t *testing.T) {
		em := &fakeEmitter{}
		d := NewDispatcher(maya, em)

		require.NoError(t, d.CompleteTask("   "))
		assert.Empty(t, em.emits)
	})
}

func TestDispatcherCompleteSession(t *testing.T) {
	em := &fakeEmitter{}
	d := NewDispatcher(maya, em)

	require.NoError(t, d.CompleteSession())
	require.Len(t, em.emits, 1)
	assert.Equal(t, EventCompleteSession, em.emits[0].event)
	assert.Equal(t, CompleteSessionPayload{
		Email:    maya.Email,
		UserName: maya.DisplayName,
	}, em.emits[0].payload)
}
