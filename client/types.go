package client

// MessagePair is one user/assistant exchange as the server stores it.
type MessagePair struct {
	User string `json:"user"`
	AI   string `json:"ai"`
}

// ConversationSnapshot from GET /api/conversation/{email}.
type ConversationSnapshot struct {
	Conversation []MessagePair `json:"conversation"`
	Task         string        `json:"task"`
}

// TaskSnapshot from GET /api/task/{email}.
type TaskSnapshot struct {
	Task string `json:"task"`
}

// LoginRequest for POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse from POST /api/login.
type LoginResponse struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	UserName string `json:"userName"`
	UserID   string `json:"userId"`
}

// JournalReport is one completed task entry from GET /api/reports/{email}.
type JournalReport struct {
	TaskID           int    `json:"taskId"`
	TaskName         string `json:"taskName"`
	UserResponse     string `json:"userResponse"`
	TaskFeedback     string `json:"taskFeedback"`
	PerformanceScore string `json:"performanceScore"`
	CreationDate     string `json:"creationDate"`
	CompletionDate   string `json:"completionDate"`
}

// ReportsResponse from GET /api/reports/{email}.
type ReportsResponse struct {
	Reports      []JournalReport `json:"reports"`
	LatestReport string          `json:"latestReport,omitempty"`
}

// ErrorResponse for API errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
