// Package dto defines one explicit request/response type per endpoint so the
// gateway's HTTP contract is enforceable at compile time instead of being
// assembled ad hoc per branch.
package dto

import "github.com/spec-kit/joke-moderation-service/internal/domain"

// SubmitJokeRequest is the POST /joke payload.
type SubmitJokeRequest struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

// UpdateJokeRequest is the PUT /joke/:id payload, forwarded as a full write.
type UpdateJokeRequest struct {
	Content  string `json:"content"`
	Type     string `json:"type"`
	Approved bool   `json:"approved"`
}

// CreateJokeTypeRequest is the POST /joke-type payload.
type CreateJokeTypeRequest struct {
	Type string `json:"type"`
}

// JokeResponse is the gateway's view of a joke. Status is derived from the
// approved flag; the store itself cannot distinguish rejected from pending.
type JokeResponse struct {
	ID       string                  `json:"id"`
	Content  string                  `json:"content"`
	Type     string                  `json:"type"`
	Approved bool                    `json:"approved"`
	Status   domain.ModerationStatus `json:"status"`
}

// JokeTypeResponse is a joke category record.
type JokeTypeResponse struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// MessageResponse carries only a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// JokeMessageResponse pairs a confirmation message with the affected joke.
type JokeMessageResponse struct {
	Message string       `json:"message"`
	Joke    JokeResponse `json:"joke"`
}

// JokeUpdateResponse keeps the original surface's "jokeType" key on
// PUT /joke/:id even though the value is the updated joke record.
type JokeUpdateResponse struct {
	Message  string       `json:"message"`
	JokeType JokeResponse `json:"jokeType"`
}

// ErrorResponse is the uniform error body: every failure carries a message.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewJokeResponse maps a domain joke onto the response shape.
func NewJokeResponse(joke *domain.Joke) JokeResponse {
	return JokeResponse{
		ID:       joke.ID,
		Content:  joke.Content,
		Type:     joke.TypeID,
		Approved: joke.Approved,
		Status:   joke.Status(),
	}
}

// NewJokeTypeResponse maps a domain joke type onto the response shape.
func NewJokeTypeResponse(jokeType *domain.JokeType) JokeTypeResponse {
	return JokeTypeResponse{
		ID:   jokeType.ID,
		Type: jokeType.Label,
	}
}
