package session

// Intent is the router's verdict on where the user should be looking.
type Intent int

const (
	// IntentStay: nothing actionable changed; remain on the current view.
	IntentStay Intent = iota

	// IntentOfferTask: a task was assigned; surface a dismissible
	// call-to-action that transitions to the journal task view.
	IntentOfferTask

	// IntentSessionClosed: the session report arrived; no further
	// transcript or task activity is meaningful.
	IntentSessionClosed
)

func (i Intent) String() string {
	switch i {
	case IntentStay:
		return "stay"
	case IntentOfferTask:
		return "offer_task"
	case IntentSessionClosed:
		return "session_closed"
	default:
		return "unknown"
	}
}

// Handoff carries the minimum state across a chat → task view transition so
// the task view does not re-fetch a description it was already given.
type Handoff struct {
	Identity        Identity
	TaskDescription string
}

// Router decides view transitions from store content. It offers the task
// view exactly once per ""→non-empty description transition: repeated
// pushes carrying the same task do not re-offer, and the offer re-arms when
// the description clears or changes.
type Router struct {
	offeredTask   string
	reportedClose bool
}

// Decide inspects the store and returns the current view intent.
func (r *Router) Decide(s *Store) Intent {
	if s.Closed() {
		if r.reportedClose {
			return IntentStay
		}
		r.reportedClose = true
		return IntentSessionClosed
	}
	r.reportedClose = false

	desc := s.ActiveTask().Description
	if desc == "" {
		r.offeredTask = ""
		return IntentStay
	}
	if desc == r.offeredTask {
		return IntentStay
	}
	r.offeredTask = desc
	return IntentOfferTask
}

// HandoffFor builds the state carried into the task view.
func (r *Router) HandoffFor(s *Store) Handoff {
	return Handoff{
		Identity:        s.Identity(),
		TaskDescription: s.ActiveTask().Description,
	}
}
