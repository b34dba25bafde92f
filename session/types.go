// Package session holds the client-side mirror of one user's journaling
// session: the conversation transcript, the active reflective task, and the
// final session report. It is transport-agnostic; the channel and HTTP
// clients feed it, the TUI reads from it.
package session

import "errors"

// Identity is the stable key identifying a user across the channel and
// fetch interfaces. Email is canonical; it is resolved once at startup and
// never mutated.
type Identity struct {
	Email       string
	DisplayName string
}

// Author identifies who wrote a message.
type Author int

const (
	AuthorUser Author = iota
	AuthorAssistant
)

// Message is a single transcript entry. Immutable once created.
type Message struct {
	Author Author
	Text   string
}

// Task is the single active reflective writing prompt, if any.
// A zero Description means no task is assigned.
type Task struct {
	Description string
	Feedback    string
	Submitted   bool
}

// Active reports whether a task is currently assigned.
func (t Task) Active() bool {
	return t.Description != ""
}

// Report is the terminal session summary produced when the user completes
// a session.
type Report struct {
	Text string
}

// Snapshot is a one-shot fetched copy of current state, used to hydrate a
// view before live pushes arrive.
type Snapshot struct {
	Transcript []Message
	Task       string
}

// Push is a server-originated event delivered over the persistent channel.
// Every push carries the identity key it belongs to; the store discards
// pushes for other identities.
type Push interface {
	IdentityKey() string
}

// ConversationUpdate replaces the full transcript and the active task.
// Both fields come from the same payload, so the store applies them
// atomically. An empty Task means "no active task", not an error.
type ConversationUpdate struct {
	Email      string
	Transcript []Message
	Task       string
}

func (p ConversationUpdate) IdentityKey() string { return p.Email }

// TaskFeedback sets feedback on the current task without touching the
// transcript.
type TaskFeedback struct {
	Email    string
	Feedback string
}

func (p TaskFeedback) IdentityKey() string { return p.Email }

// SessionComplete is the terminal event for a session.
type SessionComplete struct {
	Email  string
	Report string
}

func (p SessionComplete) IdentityKey() string { return p.Email }

var (
	// ErrIdentityMismatch is returned when a push is tagged with a
	// different identity than the store's. The push is discarded.
	ErrIdentityMismatch = errors.New("session: push identity does not match store identity")

	// ErrSessionClosed is returned when a transcript or task push arrives
	// after the session report. The push is discarded.
	ErrSessionClosed = errors.New("session: session is closed")
)
