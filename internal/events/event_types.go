package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
	EventTicketDeleted EventType = "ticket_deleted"
	EventReviewCreated EventType = "review_created"
	EventReviewUpdated EventType = "review_updated"
	EventReviewDeleted EventType = "review_deleted"
	EventFollowCreated EventType = "follow_created"
	EventFollowDeleted EventType = "follow_deleted"
)

// AllEventTypes lists every type services emit.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketUpdated,
	EventTicketDeleted,
	EventReviewCreated,
	EventReviewUpdated,
	EventReviewDeleted,
	EventFollowCreated,
	EventFollowDeleted,
}

// Event represents a domain event emitted by services after a commit.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// NewEvent stamps an event with a fresh id and the current time.
func NewEvent(eventType EventType, actorID int64, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketPayload accompanies ticket events.
type TicketPayload struct {
	TicketID int64  `json:"ticket_id"`
	Title    string `json:"title,omitempty"`
	HasImage bool   `json:"has_image"`
}

// ReviewPayload accompanies review events.
type ReviewPayload struct {
	ReviewID   int64 `json:"review_id"`
	TicketID   int64 `json:"ticket_id"`
	Rating     int   `json:"rating,omitempty"`
	Standalone bool  `json:"standalone,omitempty"`
}

// FollowPayload accompanies follow events.
type FollowPayload struct {
	FollowID     int64  `json:"follow_id"`
	FollowedID   int64  `json:"followed_id"`
	FollowedName string `json:"followed_username,omitempty"`
}
