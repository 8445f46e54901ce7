package battle

// State represents a battle lifecycle phase.
type State int32

const (
	StateInternal  State = 0 // Created, not activated
	StateQueueing  State = 1 // Accepting invites and joins
	StatePreparing State = 2 // Countdown to start
	StateRunning   State = 3 // Active competition
	StateEnded     State = 4 // Cooldown / results display
	StateDeleted   State = 5 // Terminal, removed from registry
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateInternal:
		return "Internal"
	case StateQueueing:
		return "Queueing"
	case StatePreparing:
		return "Preparing"
	case StateRunning:
		return "Running"
	case StateEnded:
		return "Ended"
	case StateDeleted:
		return "Deleted"
	default:
		return "Unknown"
	}
}
