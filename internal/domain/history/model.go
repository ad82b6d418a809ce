package history

import "time"

// EventType is a planner change recorded in the history.
type EventType string

const (
	EventAdded     EventType = "activity_added"
	EventEdited    EventType = "activity_edited"
	EventRemoved   EventType = "activity_removed"
	EventCleared   EventType = "plan_cleared"
	EventSubmitted EventType = "plan_submitted"
)

// Entry is one history event.
type Entry struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	ActivityID *string   `json:"activity_id,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	EventType  EventType `json:"type"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListOptions filters history listings.
type ListOptions struct {
	ActivityID *string
	EventType  *EventType
	Limit      int
	Offset     int
}
