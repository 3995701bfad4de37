package events

import "time"

// Event is the contract for everything published on the bus.
type Event interface {
	// EventType returns the event code (e.g. "announcement_sent").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewActionEvent wraps a completed assistant action (announcement or poll
// send, poll tally) for the bus.
func NewActionEvent(kind string, payload map[string]interface{}) Event {
	return BaseEvent{
		Type:       kind,
		Data:       payload,
		OccurredAt: time.Now(),
	}
}
