package events

import (
	"time"

	"github.com/spec-kit/joke-moderation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJokeSubmitted EventType = "joke_submitted"
	EventJokeApproved  EventType = "joke_approved"
	EventJokeRejected  EventType = "joke_rejected"
)

// Event represents a moderation event emitted by the workflow. Because the
// stored record cannot distinguish a rejected joke from a pending one, these
// events are the only place rejection is observable.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	JokeID    string      `json:"joke_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// JokeSubmittedPayload payload.
type JokeSubmittedPayload struct {
	TypeID  string `json:"type_id"`
	Content string `json:"content"`
}

// JokeModeratedPayload payload for approve/reject outcomes.
type JokeModeratedPayload struct {
	OldStatus domain.ModerationStatus `json:"old_status"`
	NewStatus domain.ModerationStatus `json:"new_status"`
}
