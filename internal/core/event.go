package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage delivers a persisted chat message.
	EventMessage EventKind = iota
	// EventError notifies a single client about a failed operation.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind    EventKind
	Message DeliveryEvent
	Error   *CoreError
}
