package domain

import "time"

// EventKind is the type of an exploit event.
type EventKind string

const (
	EventInfo     EventKind = "info"
	EventCommand  EventKind = "command"
	EventOutput   EventKind = "output"
	EventSuccess  EventKind = "success"
	EventError    EventKind = "error"
	EventComplete EventKind = "complete"
)

// Event is one line of an exploit run's ordered output stream.
type Event struct {
	Kind      EventKind `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Module    string    `json:"module"`
}

func NewEvent(kind EventKind, message, module string) Event {
	return Event{
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Message:   message,
		Module:    module,
	}
}
