// Package msg defines the tea.Msg types dispatched within the journal TUI.
// It has no upstream imports (client, model) to avoid import cycles; wire
// shapes are mirrored here where needed.
package msg

// -- Snapshot fetches --

// MessagePair mirrors client.MessagePair so this package stays
// import-cycle-free.
type MessagePair struct {
	User string
	AI   string
}

// SnapshotResult from GET /api/conversation/{email}, used to hydrate the
// chat view on mount.
type SnapshotResult struct {
	Conversation []MessagePair
	Task         string
	Err          error
}

// TaskSnapshotResult from GET /api/task/{email}, used when the task view is
// entered without a handoff.
type TaskSnapshotResult struct {
	Task string
	Err  error
}

// JournalReport mirrors client.JournalReport for the dashboard.
type JournalReport struct {
	TaskName         string
	UserResponse     string
	TaskFeedback     string
	PerformanceScore string
	CompletionDate   string
}

// ReportsResult from GET /api/reports/{email}.
type ReportsResult struct {
	Reports      []JournalReport
	LatestReport string
	Err          error
}

// -- UI events --

// TickMsg for periodic timer updates (toast expiry, reconnect clock).
type TickMsg struct{}
