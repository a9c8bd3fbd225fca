package store

// EventType is the closed set of store notifications.
type EventType string

const (
	EventAdded   EventType = "added"
	EventRemoved EventType = "removed"
	EventCleared EventType = "cleared"
)

// Event is one store notification. Record is set for added/removed and nil
// for cleared.
type Event struct {
	Type   EventType
	Record *ImageRecord
}

// Listener receives every store event, synchronously, in subscription order.
type Listener func(Event)
