package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// -- Channel events (callers convert to msg.* where needed) -------------------

// ChannelConnectedEvent is dispatched when the websocket is established.
type ChannelConnectedEvent struct{}

// ChannelDisconnectedEvent is dispatched when the connection drops or
// closes. Terminal means the reconnect budget is spent and no further
// attempts will be made.
type ChannelDisconnectedEvent struct {
	Err      error
	Terminal bool
}

// ChannelReconnectingEvent is dispatched before each reconnect attempt.
type ChannelReconnectingEvent struct {
	Attempt int
}

// ConversationUpdatedEvent carries the full current transcript and the
// active task. The server always sends the whole conversation, never a
// delta, so applying the same event twice is harmless.
type ConversationUpdatedEvent struct {
	Email        string        `json:"email"`
	Conversation []MessagePair `json:"conversation"`
	Task         string        `json:"task"`
}

// TaskFeedbackEvent sets feedback on the current journal task.
type TaskFeedbackEvent struct {
	Email    string `json:"email"`
	Feedback string `json:"feedback"`
}

// SessionCompleteEvent is the terminal event for a session.
type SessionCompleteEvent struct {
	Email  string `json:"email"`
	Report string `json:"report"`
}

// ChannelParseWarning is dispatched when a frame cannot be parsed or lacks
// its identity field. Malformed events are reported, never crashed on.
type ChannelParseWarning struct {
	Message string
}

// Server → client event names.
const (
	EventConversationUpdated = "conversation_updated"
	EventTaskFeedback        = "task_feedback"
	EventSessionComplete     = "session_complete"

	// legacy name still emitted by older backends
	eventReceiveMessage = "receive_message"
)

// ErrNotConnected is returned by Emit while the websocket is down. There is
// no outbound queue; the caller resends once visibly reconnected.
var ErrNotConnected = errors.New("client: channel not connected")

// MaxReconnects is the number of reconnect attempts before giving up.
const MaxReconnects = 10

// envelope is the JSON frame wrapping every channel event.
type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Handler receives parsed channel events for one subscription.
type Handler func(ev any)

// Subscription is a scoped binding of a handler to a set of event names.
// Cancel is idempotent and guarantees no delivery afterwards, so a view can
// subscribe on enter and release on exit without leaking a stale handler.
type Subscription struct {
	id     uuid.UUID
	ch     *Channel
	events map[string]struct{}
	fn     Handler
	once   sync.Once
}

// Cancel detaches the subscription from the channel.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.ch.subsMu.Lock()
		delete(s.ch.subs, s.id)
		s.ch.subsMu.Unlock()
	})
}

// Channel owns the single persistent websocket connection to the server.
// One Channel is constructed at application start and shared by every view;
// opening a second connection for the same identity is a bug.
type Channel struct {
	baseURL string
	token   string
	email   string
	done    chan struct{}

	connMu  sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex

	subsMu sync.Mutex
	subs   map[uuid.UUID]*Subscription

	log *zap.Logger
}

// NewChannel creates a channel bound to one identity. It does not dial;
// ListenCmd does.
func NewChannel(baseURL, token, email string, log *zap.Logger) *Channel {
	if log == nil {
		log = zap.NewNop()
	}
	return &Channel{
		baseURL: baseURL,
		token:   token,
		email:   email,
		done:    make(chan struct{}),
		subs:    make(map[uuid.UUID]*Subscription),
		log:     log,
	}
}

// Close signals the channel to stop. Reconnection loops observe it too.
func (c *Channel) Close() {
	select {
	case <-c.done:
	default:
		close(c.done)
	}
	c.connMu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.connMu.Unlock()
}

// IsClosed reports whether the channel was intentionally closed.
func (c *Channel) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Subscribe registers a handler for the named events. With no names the
// handler receives every event, including connection status.
func (c *Channel) Subscribe(fn Handler, events ...string) *Subscription {
	sub := &Subscription{
		id: uuid.New(),
		ch: c,
		fn: fn,
	}
	if len(events) > 0 {
		sub.events = make(map[string]struct{}, len(events))
		for _, e := range events {
			sub.events[e] = struct{}{}
		}
	}
	c.subsMu.Lock()
	c.subs[sub.id] = sub
	c.subsMu.Unlock()
	return sub
}

// Emit sends a named event to the server. While disconnected it fails with
// ErrNotConnected; nothing is queued or replayed.
func (c *Channel) Emit(event string, payload any) error {
	c.connMu.Lock()
	conn := c.conn
	c.connMu.Unlock()
	if conn == nil {
		return ErrNotConnected
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := conn.WriteJSON(outEnvelope{Event: event, Data: payload}); err != nil {
		return fmt.Errorf("emit %s: %w", event, err)
	}
	return nil
}

// ListenCmd returns a tea.Cmd that dials the websocket and pumps parsed
// events into the program (and any subscriptions) until the connection
// drops or the channel is closed.
func (c *Channel) ListenCmd(p *tea.Program) tea.Cmd {
	return func() tea.Msg {
		_, m := c.listen(p)
		return m
	}
}

// listen dials and runs the read loop. The connected result reports whether
// the dial succeeded at all; the reconnect loop uses it to reset its budget.
func (c *Channel) listen(p *tea.Program) (connected bool, m tea.Msg) {
	conn, _, err := websocket.DefaultDialer.Dial(c.wsURL(), nil)
	if err != nil {
		return false, ChannelDisconnectedEvent{Err: err}
	}

	c.connMu.Lock()
	c.conn = conn
	c.connMu.Unlock()

	c.dispatch(p, "connected", ChannelConnectedEvent{})

	for {
		select {
		case <-c.done:
			c.dropConn(conn)
			return true, ChannelDisconnectedEvent{Err: nil}
		default:
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			c.dropConn(conn)
			if c.IsClosed() {
				return true, ChannelDisconnectedEvent{Err: nil}
			}
			return true, ChannelDisconnectedEvent{Err: err}
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn("malformed channel frame", zap.Error(err))
			c.dispatch(p, "", ChannelParseWarning{Message: fmt.Sprintf("[channel] bad frame: %v", err)})
			continue
		}
		if m := parseChannelEvent(env.Event, env.Data); m != nil {
			if w, ok := m.(ChannelParseWarning); ok {
				c.log.Warn("unparseable channel event", zap.String("event", env.Event), zap.String("detail", w.Message))
			}
			c.dispatch(p, env.Event, m)
		}
	}
}

// ReconnectListenCmd retries the connection with exponential backoff. Each
// successful connection resets the attempt budget; only MaxReconnects
// consecutive failures report a terminal disconnect. The reconnecting state
// is dispatched before the backoff sleep so the status line never claims a
// connection that is already gone.
func (c *Channel) ReconnectListenCmd(p *tea.Program) tea.Cmd {
	return func() tea.Msg {
		attempt := 0
		maxBackoff := 30 * time.Second

		for {
			select {
			case <-c.done:
				return ChannelDisconnectedEvent{Err: nil}
			default:
			}

			if attempt >= MaxReconnects {
				return ChannelDisconnectedEvent{
					Err:      fmt.Errorf("reconnect failed after %d attempts", MaxReconnects),
					Terminal: true,
				}
			}

			attempt++
			c.log.Info("reconnecting", zap.Int("attempt", attempt))
			c.dispatch(p, "reconnecting", ChannelReconnectingEvent{Attempt: attempt})

			shift := attempt
			if shift > 5 {
				shift = 5 // cap the shift so backoff tops out at 32s pre-clamp
			}
			backoff := time.Duration(1<<uint(shift)) * time.Second
			if backoff > maxBackoff {
				backoff = maxBackoff
			}

			select {
			case <-time.After(backoff):
			case <-c.done:
				return ChannelDisconnectedEvent{Err: nil}
			}

			connected, result := c.listen(p)
			if connected {
				attempt = 0
			}
			if _, ok := result.(ChannelDisconnectedEvent); ok || result == nil {
				continue
			}
			return result
		}
	}
}

func (c *Channel) wsURL() string {
	ws := c.baseURL
	switch {
	case strings.HasPrefix(ws, "https://"):
		ws = "wss://" + strings.TrimPrefix(ws, "https://")
	case strings.HasPrefix(ws, "http://"):
		ws = "ws://" + strings.TrimPrefix(ws, "http://")
	}
	q := url.Values{}
	q.Set("email", c.email)
	if c.token != "" {
		q.Set("token", c.token)
	}
	return ws + "/ws?" + q.Encode()
}

func (c *Channel) dropConn(conn *websocket.Conn) {
	conn.Close()
	c.connMu.Lock()
	if c.conn == conn {
		c.conn = nil
	}
	c.connMu.Unlock()
}

// dispatch fans a parsed event out to the tea program and to matching
// subscriptions. The program may be nil in headless use.
func (c *Channel) dispatch(p *tea.Program, event string, m any) {
	if p != nil {
		p.Send(m)
	}
	c.subsMu.Lock()
	subs := make([]*Subscription, 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.subsMu.Unlock()
	for _, s := range subs {
		if s.events != nil {
			if _, ok := s.events[event]; !ok {
				continue
			}
		}
		s.fn(m)
	}
}

// parseChannelEvent converts an event name plus JSON data into a typed
// event. Events missing their identity field are reported as warnings; the
// store could not safely filter them.
func parseChannelEvent(event string, data []byte) any {
	switch event {
	case EventConversationUpdated, eventReceiveMessage:
		var ev ConversationUpdatedEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] parse %s: %v", event, err)}
		}
		if ev.Email == "" {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] %s without email", event)}
		}
		return ev

	case EventTaskFeedback:
		var ev TaskFeedbackEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] parse %s: %v", event, err)}
		}
		if ev.Email == "" {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] %s without email", event)}
		}
		return ev

	case EventSessionComplete:
		var ev SessionCompleteEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] parse %s: %v", event, err)}
		}
		if ev.Email == "" {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] %s without email", event)}
		}
		return ev

	default:
		if event != "" {
			return ChannelParseWarning{Message: fmt.Sprintf("[channel] unknown event type: %s", event)}
		}
	}
	return nil
}
