package style

import "github.com/charmbracelet/lipgloss"

// Colors, populated from the active Theme.
var (
	Primary   lipgloss.TerminalColor = lipgloss.Color("#14B8A6")
	Secondary lipgloss.TerminalColor = lipgloss.Color("#A78BFA")
	Success   lipgloss.TerminalColor = lipgloss.Color("#22C55E")
	Warning   lipgloss.TerminalColor = lipgloss.Color("#F59E0B")
	Error     lipgloss.TerminalColor = lipgloss.Color("#EF4444")
	Muted     lipgloss.TerminalColor = lipgloss.Color("#6B7280")
	Dim       lipgloss.TerminalColor = lipgloss.Color("#374151")
	Border    lipgloss.TerminalColor = lipgloss.Color("#4B5563")
)

// Derived styles. Rebuilt by SetTheme.
var (
	Bold      lipgloss.Style
	Faint     lipgloss.Style
	WarnText  lipgloss.Style
	ErrorText lipgloss.Style

	// Banner
	BannerTitle  lipgloss.Style
	BannerDetail lipgloss.Style

	// Prompt
	PromptChar lipgloss.Style

	// Chat
	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style

	// Task banner (call-to-action in the chat view)
	TaskBannerBox  lipgloss.Style
	TaskBannerText lipgloss.Style

	// Journal task view
	TaskTitle     lipgloss.Style
	FeedbackPanel lipgloss.Style

	// Dashboard
	EntryDone    lipgloss.Style
	EntryPending lipgloss.Style
	ScoreLabel   lipgloss.Style

	// Report
	ReportBox lipgloss.Style

	// Status bar
	StatusBar          lipgloss.Style
	StatusConnected    lipgloss.Style
	StatusReconnecting lipgloss.Style
	StatusDisconnected lipgloss.Style

	// Hints (key help in the footer)
	Hint lipgloss.Style
)

func rebuild() {
	Bold = lipgloss.NewStyle().Bold(true)
	Faint = lipgloss.NewStyle().Foreground(Muted)
	WarnText = lipgloss.NewStyle().Foreground(Warning)
	ErrorText = lipgloss.NewStyle().Foreground(Error).Bold(true)

	BannerTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	BannerDetail = lipgloss.NewStyle().Foreground(Muted)

	PromptChar = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	UserLabel = lipgloss.NewStyle().Foreground(Secondary).Bold(true)
	AssistantLabel = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	TaskBannerBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Primary).
		Padding(0, 1)
	TaskBannerText = lipgloss.NewStyle().Foreground(Primary).Bold(true)

	TaskTitle = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	FeedbackPanel = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Secondary).
		PaddingLeft(1)

	EntryDone = lipgloss.NewStyle().Foreground(Success)
	EntryPending = lipgloss.NewStyle().Foreground(Muted)
	ScoreLabel = lipgloss.NewStyle().Foreground(Secondary)

	ReportBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	StatusBar = lipgloss.NewStyle().Foreground(Muted).PaddingLeft(1)
	StatusConnected = lipgloss.NewStyle().Foreground(Success)
	StatusReconnecting = lipgloss.NewStyle().Foreground(Warning)
	StatusDisconnected = lipgloss.NewStyle().Foreground(Error)

	Hint = lipgloss.NewStyle().Foreground(Dim)
}

func init() {
	rebuild()
}
