// Package app owns the bubbletea event loop. All session state mutations
// happen here, one message at a time, which is what gives the store its
// arrival-order semantics without locks.
package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/innerlog/journal-tui/client"
	"github.com/innerlog/journal-tui/model"
	"github.com/innerlog/journal-tui/msg"
	"github.com/innerlog/journal-tui/session"
)

// ProgramReady is sent by main once the tea.Program exists, so the channel
// read loop has somewhere to deliver events.
type ProgramReady struct{ Program *tea.Program }

// Model is the root TUI model: three views over one store, one channel,
// one identity.
type Model struct {
	banner    model.BannerModel
	chat      model.ChatModel
	journal   model.JournalModel
	dashboard model.DashboardModel
	input     model.InputModel
	status    model.StatusModel
	toasts    model.ToastsModel

	store      *session.Store
	router     session.Router
	dispatcher *session.Dispatcher

	api     *client.Client
	channel *client.Channel
	program *tea.Program

	view        View
	width       int
	height      int
	keys        KeyMap
	confirmQuit bool

	log *zap.Logger
}

// New wires the root model. The channel and HTTP client are constructed by
// main and injected; the app never opens a second connection.
func New(api *client.Client, ch *client.Channel, store *session.Store, version string, log *zap.Logger) Model {
	if log == nil {
		log = zap.NewNop()
	}
	id := store.Identity()

	banner := model.NewBanner(version)
	banner.SetIdentity(id.Email, id.DisplayName)

	input := model.NewInput()
	input.SetCommands([]string{"/task", "/dashboard", "/chat", "/done", "/new", "/help", "/quit"})
	// Focus here, where the mutation lands in the returned model. Init's
	// receiver is a copy bubbletea discards; only its Cmd survives.
	input.Focus()

	status := model.NewStatus(client.MaxReconnects)
	status.SetHints(chatHints)

	return Model{
		banner:     banner,
		chat:       model.NewChat(80, 20),
		journal:    model.NewJournal(),
		dashboard:  model.NewDashboard(),
		input:      input,
		status:     status,
		toasts:     model.NewToasts(),
		store:      store,
		dispatcher: session.NewDispatcher(id, ch),
		api:        api,
		channel:    ch,
		view:       ViewChat,
		width:      80,
		height:     24,
		keys:       DefaultKeyMap(),
		log:        log,
	}
}

// The journal and dashboard views render their own hint lines, so the
// status bar only carries hints on the chat view.
const chatHints = "ctrl+t journal · ctrl+g progress · /help"

// Init kicks off hydration. The snapshot fetch covers the gap between the
// view opening and the first channel push.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchConversation(), m.input.Focus(), tea.WindowSize())
}

func (m Model) Update(rawMsg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := rawMsg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.banner.SetWidth(v.Width)
		m.chat.SetSize(v.Width, m.chatHeight())
		m.journal.SetWidth(v.Width)
		m.dashboard.SetWidth(v.Width)
		m.input.SetWidth(v.Width)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(v)

	case ProgramReady:
		m.program = v.Program
		return m, m.channel.ListenCmd(m.program)

	case msg.SnapshotResult:
		return m.handleSnapshot(v)

	case msg.TaskSnapshotResult:
		m.journal.SetLoading(false)
		if v.Err != nil {
			m.log.Warn("task fetch failed", zap.Error(v.Err))
			m.toasts.Add("Could not fetch your task", model.ToastWarning)
			return m, m.tickCmd()
		}
		m.journal.SetDescription(v.Task)
		return m, nil

	case msg.ReportsResult:
		if v.Err != nil {
			m.log.Warn("reports fetch failed", zap.Error(v.Err))
			m.dashboard.SetFetchFailed()
			return m, nil
		}
		m.dashboard.SetEntries(v.Reports)
		if v.LatestReport != "" {
			m.dashboard.SetReport(v.LatestReport)
		}
		return m, nil

	case client.ChannelConnectedEvent:
		m.status.SetConnState(model.ConnConnected)
		return m, nil

	case client.ChannelDisconnectedEvent:
		m.status.SetConnState(model.ConnDisconnected)
		if v.Err != nil {
			m.log.Warn("channel dropped", zap.Error(v.Err))
		}
		if v.Terminal {
			m.chat.AddSystemWarning("Connection lost and could not be restored. Restart to reconnect.")
			return m, nil
		}
		if m.channel.IsClosed() || m.program == nil {
			return m, nil
		}
		return m, m.channel.ReconnectListenCmd(m.program)

	case client.ChannelReconnectingEvent:
		m.status.SetReconnecting(v.Attempt)
		return m, nil

	case client.ChannelParseWarning:
		m.toasts.Add("Received an event the client could not read", model.ToastWarning)
		return m, m.tickCmd()

	case client.ConversationUpdatedEvent:
		return m.applyPush(session.ConversationUpdate{
			Email:      v.Email,
			Transcript: clientPairsToMessages(v.Conversation),
			Task:       v.Task,
		})

	case client.TaskFeedbackEvent:
		return m.applyPush(session.TaskFeedback{Email: v.Email, Feedback: v.Feedback})

	case client.SessionCompleteEvent:
		return m.applyPush(session.SessionComplete{Email: v.Email, Report: v.Report})

	case msg.TickMsg:
		m.toasts.Tick()
		if m.toasts.HasToasts() {
			return m, m.tickCmd()
		}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, m.banner.View())

	switch m.view {
	case ViewChat:
		sections = append(sections, m.chat.View())
		sections = append(sections, m.status.View())
		sections = append(sections, m.input.View())
	case ViewJournal:
		sections = append(sections, m.journal.View())
		sections = append(sections, m.status.View())
	case ViewDashboard:
		sections = append(sections, m.dashboard.View())
		sections = append(sections, m.status.View())
	}

	if m.toasts.HasToasts() {
		sections = append(sections, m.toasts.View(m.width))
	}
	if m.confirmQuit {
		sections = append(sections, "\n  Press Ctrl+C again to quit, or any key to cancel.")
	}
	return strings.Join(sections, "\n")
}

// -- Push handling ------------------------------------------------------------

// applyPush routes a channel push through the store and re-renders. Pushes
// for other identities and pushes after session close are logged and
// dropped without user-visible noise.
func (m Model) applyPush(push session.Push) (Model, tea.Cmd) {
	if err := m.store.Apply(push); err != nil {
		switch {
		case errors.Is(err, session.ErrIdentityMismatch):
			m.log.Debug("discarded cross-identity push", zap.String("key", push.IdentityKey()))
		case errors.Is(err, session.ErrSessionClosed):
			m.log.Debug("discarded push after session close")
		default:
			m.log.Warn("push rejected", zap.Error(err))
		}
		return m, nil
	}
	return m.syncFromStore()
}

// handleSnapshot applies the mount-time fetch. The store ignores it if a
// push already arrived; last write by arrival order wins.
func (m Model) handleSnapshot(v msg.SnapshotResult) (Model, tea.Cmd) {
	if v.Err != nil {
		// Degrade to an empty transcript; the channel may still deliver.
		m.log.Warn("snapshot fetch failed", zap.Error(v.Err))
		m.toasts.Add("Could not load your conversation history", model.ToastWarning)
		return m, m.tickCmd()
	}
	m.store.Hydrate(session.Snapshot{
		Transcript: msgPairsToMessages(v.Conversation),
		Task:       v.Task,
	})
	return m.syncFromStore()
}

// syncFromStore re-renders every view from store state and lets the router
// decide whether to surface the task call-to-action.
func (m Model) syncFromStore() (Model, tea.Cmd) {
	m.chat.SetTranscript(messagesToPairs(m.store.Transcript()))

	task := m.store.ActiveTask()
	if !task.Active() {
		m.chat.ClearTaskBanner()
		m.journal.SetDescription("")
	} else if m.view == ViewJournal {
		m.journal.SetDescription(task.Description)
		if task.Feedback != "" {
			m.journal.SetFeedback(task.Feedback)
		}
	}

	var cmd tea.Cmd
	switch m.router.Decide(m.store) {
	case session.IntentOfferTask:
		if m.view != ViewJournal {
			m.chat.SetTaskBanner(task.Description)
			m.toasts.Add("A new journal task was assigned", model.ToastInfo)
			cmd = m.tickCmd()
		}
	case session.IntentSessionClosed:
		m.chat.ClearTaskBanner()
		m.status.SetSessionClosed(true)
		if r := m.store.Report(); r != nil {
			m.chat.AddSystemMessage("Session complete. Your report:\n\n" + r.Text)
			m.dashboard.SetReport(r.Text)
		}
		if m.view == ViewJournal {
			m = m.enterChat()
			cmd = m.input.Focus()
		}
	}
	return m, cmd
}

// -- Key handling -------------------------------------------------------------

func (m Model) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmQuit {
		if key.Matches(k, m.keys.Cancel) {
			m.channel.Close()
			return m, tea.Quit
		}
		m.confirmQuit = false
		return m, nil
	}

	switch m.view {
	case ViewChat:
		return m.handleChatKey(k)
	case ViewJournal:
		return m.handleJournalKey(k)
	case ViewDashboard:
		return m.handleDashboardKey(k)
	}
	return m, nil
}

func (m Model) handleChatKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		if m.input.Value() == "" {
			m.confirmQuit = true
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case key.Matches(k, m.keys.QuitEOF):
		if m.input.Value() == "" {
			m.channel.Close()
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(k, m.keys.Back):
		if m.chat.HasTaskBanner() {
			m.chat.ClearTaskBanner()
			return m, nil
		}
		m.input.Reset()
		return m, nil

	case key.Matches(k, m.keys.OpenJournal):
		return m.openJournal()

	case key.Matches(k, m.keys.OpenDashboard):
		return m.enterDashboard()

	case key.Matches(k, m.keys.Submit):
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Submit(text)
		if strings.HasPrefix(text, "/") {
			return m.handleSlash(text)
		}
		return m.sendMessage(text)

	case key.Matches(k, m.keys.ScrollTop):
		m.chat.ScrollToTop()
		return m, nil

	case key.Matches(k, m.keys.ScrollBottom):
		m.chat.ScrollToBottom()
		return m, nil

	case key.Matches(k, m.keys.PageUp), key.Matches(k, m.keys.PageDown):
		updated, cmd := m.chat.Update(k)
		if c, ok := updated.(model.ChatModel); ok {
			m.chat = c
		}
		return m, cmd
	}

	updated, cmd := m.input.Update(k)
	if inp, ok := updated.(model.InputModel); ok {
		m.input = inp
	}
	return m, cmd
}

func (m Model) handleJournalKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.confirmQuit = true
		return m, nil

	case key.Matches(k, m.keys.Back):
		m = m.enterChat()
		return m, m.input.Focus()

	case key.Matches(k, m.keys.SubmitJournal):
		return m.submitJournal()
	}

	updated, cmd := m.journal.Update(k)
	if j, ok := updated.(model.JournalModel); ok {
		m.journal = j
	}
	return m, cmd
}

func (m Model) handleDashboardKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(k, m.keys.Cancel):
		m.confirmQuit = true
		return m, nil

	case key.Matches(k, m.keys.Back):
		m = m.enterChat()
		return m, m.input.Focus()
	}

	if k.String() == "r" {
		m.dashboard.SetLoading(true)
		return m, m.fetchReports()
	}
	return m, nil
}

// -- Actions ------------------------------------------------------------------

// sendMessage dispatches the user's text. Nothing is appended locally; the
// transcript updates when the server's next conversation_updated arrives.
func (m Model) sendMessage(text string) (Model, tea.Cmd) {
	if err := m.dispatcher.SendMessage(text); err != nil {
		return m.emitFailed(err)
	}
	return m, nil
}

func (m Model) submitJournal() (Model, tea.Cmd) {
	text := strings.TrimSpace(m.journal.Value())
	if text == "" {
		m.toasts.Add("Write a response before submitting", model.ToastInfo)
		return m, m.tickCmd()
	}
	if err := m.dispatcher.CompleteTask(text); err != nil {
		return m.emitFailed(err)
	}
	m.store.MarkTaskSubmitted()
	m.journal.MarkSubmitted()
	return m, nil
}

func (m Model) completeSession() (Model, tea.Cmd) {
	if err := m.dispatcher.CompleteSession(); err != nil {
		return m.emitFailed(err)
	}
	m.chat.AddSystemMessage("Wrapping up. Your session report will arrive shortly.")
	return m, nil
}

// emitFailed surfaces a dropped emission. There is no retry queue; the user
// resends once the status line shows the channel is back.
func (m Model) emitFailed(err error) (Model, tea.Cmd) {
	if errors.Is(err, client.ErrNotConnected) {
		m.toasts.Add("Not connected. Your message was not sent.", model.ToastError)
	} else {
		m.log.Warn("emit failed", zap.Error(err))
		m.toasts.Add("Send failed. Try again.", model.ToastError)
	}
	return m, m.tickCmd()
}

func (m Model) handleSlash(text string) (tea.Model, tea.Cmd) {
	cmd, _, _ := strings.Cut(text, " ")
	switch cmd {
	case "/task":
		return m.openJournal()
	case "/dashboard":
		return m.enterDashboard()
	case "/chat":
		m = m.enterChat()
		return m, m.input.Focus()
	case "/done":
		return m.completeSession()
	case "/new":
		m.store.StartNewSession()
		m.status.SetSessionClosed(false)
		m.chat = model.NewChat(m.width, m.chatHeight())
		m.chat.AddSystemMessage("New session started.")
		return m, nil
	case "/help":
		m.chat.AddSystemMessage(helpText())
		return m, nil
	case "/quit", "/exit":
		m.channel.Close()
		return m, tea.Quit
	default:
		m.chat.AddSystemMessage(fmt.Sprintf("Unknown command: %s (try /help)", cmd))
		return m, nil
	}
}

// -- View transitions ---------------------------------------------------------

// openJournal enters the task view through the router's handoff. With no
// active task held locally the handoff is empty and enterJournal fetches,
// which also recovers a task assigned while the client was disconnected.
func (m Model) openJournal() (Model, tea.Cmd) {
	return m.enterJournal(m.router.HandoffFor(m.store))
}

// enterJournal mounts the task view. Without a carried description (deep
// entry) it falls back to the task-only snapshot fetch.
func (m Model) enterJournal(h session.Handoff) (Model, tea.Cmd) {
	m.view = ViewJournal
	m.chat.ClearTaskBanner()
	m.input.Blur()
	m.status.SetHints("")

	cmds := []tea.Cmd{m.journal.Focus()}
	if h.TaskDescription != "" {
		m.journal.SetDescription(h.TaskDescription)
		if fb := m.store.ActiveTask().Feedback; fb != "" {
			m.journal.SetFeedback(fb)
		}
	} else {
		m.journal.SetLoading(true)
		cmds = append(cmds, m.fetchTask())
	}
	return m, tea.Batch(cmds...)
}

func (m Model) enterDashboard() (Model, tea.Cmd) {
	m.view = ViewDashboard
	m.input.Blur()
	m.journal.Blur()
	m.status.SetHints("")
	m.dashboard.SetLoading(true)
	return m, m.fetchReports()
}

func (m Model) enterChat() Model {
	m.view = ViewChat
	m.journal.Blur()
	m.status.SetHints(chatHints)
	m.chat.SetSize(m.width, m.chatHeight())
	return m
}

// -- Commands -----------------------------------------------------------------

func (m Model) fetchConversation() tea.Cmd {
	api := m.api
	email := m.store.Identity().Email
	return func() tea.Msg {
		snap, err := api.FetchConversation(email)
		if err != nil {
			return msg.SnapshotResult{Err: err}
		}
		return msg.SnapshotResult{
			Conversation: clientPairsToMsg(snap.Conversation),
			Task:         snap.Task,
		}
	}
}

func (m Model) fetchTask() tea.Cmd {
	api := m.api
	email := m.store.Identity().Email
	return func() tea.Msg {
		task, err := api.FetchTask(email)
		if err != nil {
			return msg.TaskSnapshotResult{Err: err}
		}
		return msg.TaskSnapshotResult{Task: task}
	}
}

func (m Model) fetchReports() tea.Cmd {
	api := m.api
	email := m.store.Identity().Email
	return func() tea.Msg {
		resp, err := api.FetchReports(email)
		if err != nil {
			return msg.ReportsResult{Err: err}
		}
		reports := make([]msg.JournalReport, 0, len(resp.Reports))
		for _, r := range resp.Reports {
			reports = append(reports, msg.JournalReport{
				TaskName:         r.TaskName,
				UserResponse:     r.UserResponse,
				TaskFeedback:     r.TaskFeedback,
				PerformanceScore: r.PerformanceScore,
				CompletionDate:   r.CompletionDate,
			})
		}
		return msg.ReportsResult{Reports: reports, LatestReport: resp.LatestReport}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return msg.TickMsg{} })
}

// chatHeight is the viewport height left after the banner, status line and
// input bar.
func (m Model) chatHeight() int {
	h := m.height - 4
	if m.toasts.HasToasts() {
		h -= 3
	}
	if h < 5 {
		h = 5
	}
	return h
}

func helpText() string {
	return `Commands:
  /task       Open your journal task
  /dashboard  View your progress
  /chat       Back to the conversation
  /done       Complete this session and get your report
  /new        Start a fresh session
  /help       Show this help
  /quit       Exit

Keybindings:
  Enter       Send message
  Ctrl+T      Open journal task
  Ctrl+G      Open progress dashboard
  Ctrl+S      Submit journal response (task view)
  Esc         Dismiss banner / back to chat
  Home/End    Jump to oldest / newest message
  PgUp/PgDn   Scroll the conversation
  Tab         Autocomplete commands
  Up/Down     Walk input history`
}

// -- Conversions --------------------------------------------------------------

// The wire ships user/assistant pairs; the store keeps a flat ordered
// transcript. These helpers convert at the boundary in both directions.

func clientPairsToMessages(pairs []client.MessagePair) []session.Message {
	var out []session.Message
	for _, p := range pairs {
		if p.User != "" {
			out = append(out, session.Message{Author: session.AuthorUser, Text: p.User})
		}
		if p.AI != "" {
			out = append(out, session.Message{Author: session.AuthorAssistant, Text: p.AI})
		}
	}
	return out
}

func msgPairsToMessages(pairs []msg.MessagePair) []session.Message {
	var out []session.Message
	for _, p := range pairs {
		if p.User != "" {
			out = append(out, session.Message{Author: session.AuthorUser, Text: p.User})
		}
		if p.AI != "" {
			out = append(out, session.Message{Author: session.AuthorAssistant, Text: p.AI})
		}
	}
	return out
}

func clientPairsToMsg(pairs []client.MessagePair) []msg.MessagePair {
	out := make([]msg.MessagePair, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, msg.MessagePair{User: p.User, AI: p.AI})
	}
	return out
}

func messagesToPairs(msgs []session.Message) []msg.MessagePair {
	var out []msg.MessagePair
	for _, message := range msgs {
		switch message.Author {
		case session.AuthorUser:
			out = append(out, msg.MessagePair{User: message.Text})
		case session.AuthorAssistant:
			if n := len(out); n > 0 && out[n-1].AI == "" && out[n-1].User != "" {
				out[n-1].AI = message.Text
			} else {
				out = append(out, msg.MessagePair{AI: message.Text})
			}
		}
	}
	return out
}
