package domain

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
)

// Event describes a successful mutation. Note is set for created and updated,
// ID is always set.
type Event struct {
	Type EventType
	ID   ID
	Note *Note
}
