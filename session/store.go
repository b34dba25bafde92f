package session

// Store is the authoritative client-side mirror of one identity's session
// state. It is not safe for concurrent use; the bubbletea update loop (or a
// test) must serialize all calls, which also defines arrival order.
//
// Precedence is by arrival, not issuance: a snapshot that resolves after a
// push has already been applied is stale and is dropped.
type Store struct {
	identity   Identity
	transcript []Message
	task       Task
	report     *Report
	hydrated   bool
	pushSeen   bool
	closed     bool
}

// NewStore creates an empty store bound to the given identity.
func NewStore(id Identity) *Store {
	return &Store{identity: id}
}

// Identity returns the identity the store is bound to.
func (s *Store) Identity() Identity {
	return s.identity
}

// Hydrate applies a fetched snapshot. It is a no-op once a channel push has
// been applied, or after the session closed: whatever arrived first wins.
func (s *Store) Hydrate(snap Snapshot) {
	if s.pushSeen || s.closed {
		return
	}
	s.transcript = append([]Message(nil), snap.Transcript...)
	s.setTaskDescription(snap.Task)
	s.hydrated = true
}

// Apply merges a channel push into the store. Pushes for other identities
// are discarded with ErrIdentityMismatch; transcript and task pushes after
// the session report are discarded with ErrSessionClosed.
func (s *Store) Apply(push Push) error {
	if push.IdentityKey() != s.identity.Email {
		return ErrIdentityMismatch
	}

	switch p := push.(type) {
	case ConversationUpdate:
		if s.closed {
			return ErrSessionClosed
		}
		s.transcript = append([]Message(nil), p.Transcript...)
		s.setTaskDescription(p.Task)

	case TaskFeedback:
		if s.closed {
			return ErrSessionClosed
		}
		s.task.Feedback = p.Feedback

	case SessionComplete:
		s.report = &Report{Text: p.Report}
		s.closed = true
	}

	s.pushSeen = true
	s.hydrated = true
	return nil
}

// MarkTaskSubmitted records that the user dispatched a completion for the
// active task. The server remains the authority; this only drives the UI.
func (s *Store) MarkTaskSubmitted() {
	if s.task.Active() {
		s.task.Submitted = true
	}
}

// StartNewSession reopens the store for a fresh session, clearing the
// transcript, task and report.
func (s *Store) StartNewSession() {
	s.transcript = nil
	s.task = Task{}
	s.report = nil
	s.hydrated = false
	s.pushSeen = false
	s.closed = false
}

// Transcript returns the current conversation history.
func (s *Store) Transcript() []Message {
	return s.transcript
}

// ActiveTask returns the current task. Check Task.Active before use.
func (s *Store) ActiveTask() Task {
	return s.task
}

// Report returns the session report, or nil while the session is open.
func (s *Store) Report() *Report {
	return s.report
}

// Closed reports whether the session has received its terminal report.
func (s *Store) Closed() bool {
	return s.closed
}

// Hydrated reports whether the store has received any state at all, from
// either a snapshot or a push.
func (s *Store) Hydrated() bool {
	return s.hydrated
}

// setTaskDescription handles the assigned/cleared/replaced transitions.
// Feedback and the submitted flag only survive while the description is
// unchanged.
func (s *Store) setTaskDescription(desc string) {
	if desc == s.task.Description {
		return
	}
	s.task = Task{Description: desc}
}
