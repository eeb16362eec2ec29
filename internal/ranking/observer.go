package ranking

// EventKind names the transition that produced an Event.
type EventKind string

const (
	EventLoaded    EventKind = "loaded"
	EventOutcome   EventKind = "outcome"
	EventCancelled EventKind = "cancelled"
	EventUndone    EventKind = "undone"
	EventReset     EventKind = "reset"
	EventCompleted EventKind = "completed"
)

// Event is delivered to observers after every committed transition.
type Event struct {
	Kind EventKind
	View View
	// Warnings holds non-fatal problems from the transition: tier syncs that
	// failed or tasks the classifier could not place.
	Warnings []string
}

// Observer receives engine events. Observers run synchronously on the
// goroutine that made the change and must not call back into the engine's
// mutating methods.
type Observer func(Event)
