package app

// View identifies which of the three screens the user is looking at.
type View int

const (
	ViewChat View = iota
	ViewJournal
	ViewDashboard
)

func (v View) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewJournal:
		return "journal"
	case ViewDashboard:
		return "dashboard"
	default:
		return "unknown"
	}
}
