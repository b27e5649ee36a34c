package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventPostCreated    EventType = "post_created"
	EventPostDeleted    EventType = "post_deleted"
)

// Actor encapsulates the acting user for an event.
type Actor struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PostCreatedPayload payload.
type PostCreatedPayload struct {
	PostID string `json:"post_id"`
	Title  string `json:"title"`
}

// PostDeletedPayload payload.
type PostDeletedPayload struct {
	PostID string `json:"post_id"`
}
