package session

import "strings"

// Channel event names, client → server.
const (
	EventSendMessage     = "send_message"
	EventCompleteTask    = "complete_task"
	EventCompleteSession = "complete_session"
)

// Emitter sends a named event onto the persistent channel. Satisfied by
// client.Channel; tests use a recording fake.
type Emitter interface {
	Emit(event string, payload any) error
}

// SendMessagePayload is the wire shape of a send_message emission.
type SendMessagePayload struct {
	Email     string `json:"email"`
	UserName  string `json:"user_name"`
	UserInput string `json:"user_input"`
}

// CompleteTaskPayload is the wire shape of a complete_task emission.
type CompleteTaskPayload struct {
	Email        string `json:"email"`
	UserResponse string `json:"user_response"`
}

// CompleteSessionPayload is the wire shape of a complete_session emission.
type CompleteSessionPayload struct {
	Email    string `json:"email"`
	UserName string `json:"user_name"`
}

// Dispatcher validates and sends user-initiated actions onto the channel.
// Every emission carries the identity; the server alone decides what
// happens next. The client never appends its own message optimistically;
// it waits for the next conversation_updated push, even for text it just
// sent itself.
type Dispatcher struct {
	identity Identity
	emitter  Emitter
}

// NewDispatcher binds an identity to an emitter.
func NewDispatcher(id Identity, e Emitter) *Dispatcher {
	return &Dispatcher{identity: id, emitter: e}
}

// SendMessage emits the user's chat input. Empty-after-trim text is a
// silent no-op, not an error.
func (d *Dispatcher) SendMessage(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return d.emitter.Emit(EventSendMessage, SendMessagePayload{
		Email:     d.identity.Email,
		UserName:  d.identity.DisplayName,
		UserInput: text,
	})
}

// CompleteTask emits the journal task response. Empty-after-trim responses
// are a silent no-op.
func (d *Dispatcher) CompleteTask(response string) error {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil
	}
	return d.emitter.Emit(EventCompleteTask, CompleteTaskPayload{
		Email:        d.identity.Email,
		UserResponse: response,
	})
}

// CompleteSession asks the server to close the session and generate the
// report. The session only closes when the session_complete push arrives.
func (d *Dispatcher) CompleteSession() error {
	return d.emitter.Emit(EventCompleteSession, CompleteSessionPayload{
		Email:    d.identity.Email,
		UserName: d.identity.DisplayName,
	})
}
