package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/joke-moderation-service/internal/domain"
	"github.com/spec-kit/joke-moderation-service/internal/events"
	"github.com/spec-kit/joke-moderation-service/internal/jokestore"
	apperrors "github.com/spec-kit/joke-moderation-service/pkg/util"
)

// ModerationService governs a joke's moderation status. Approve and reject
// are read-modify-write sequences against the downstream store guarded by a
// read-before-write idempotency check: a transition into the state the joke
// is already in fails with ALREADY_PROCESSED.
//
// The guard is best-effort. No lock or transaction spans the fetch and the
// write, so two concurrent approvals can both pass the check (harmless, same
// outcome) and a concurrent content update can be overwritten with the
// values read at fetch time.
type ModerationService struct {
	store      jokestore.Client
	dispatcher events.Dispatcher
}

// ModerationDependencies bundles collaborators for the moderation service.
type ModerationDependencies struct {
	Store      jokestore.Client
	Dispatcher events.Dispatcher
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	return &ModerationService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
	}
}

// Submit persists a new joke downstream in the Pending state. Submission
// performs no validation beyond persistence.
func (s *ModerationService) Submit(ctx context.Context, content, typeID string) (*domain.Joke, error) {
	joke, err := s.store.CreateJoke(ctx, jokestore.JokeInput{
		Content:  content,
		TypeID:   typeID,
		Approved: false,
	})
	if err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to submit joke")
	}
	s.publishEvent(ctx, events.Event{
		Type:   events.EventJokeSubmitted,
		JokeID: joke.ID,
		Payload: events.JokeSubmittedPayload{
			TypeID:  joke.TypeID,
			Content: joke.Content,
		},
	})
	return joke, nil
}

// Approve transitions a pending joke to approved. The write sends back the
// content and type read at fetch time together with the new flag; it is a
// full write, not a patch.
func (s *ModerationService) Approve(ctx context.Context, id string) (*domain.Joke, error) {
	joke, err := s.store.GetJoke(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to approve joke")
	}
	if joke.Approved {
		return nil, apperrors.NewAlreadyProcessed("Joke has already been processed")
	}

	joke.Approved = true
	if _, err := s.store.UpdateJoke(ctx, joke.ID, jokestore.JokeInput{
		Content:  joke.Content,
		TypeID:   joke.TypeID,
		Approved: joke.Approved,
	}); err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to approve joke")
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventJokeApproved,
		JokeID: joke.ID,
		Payload: events.JokeModeratedPayload{
			OldStatus: domain.StatusPending,
			NewStatus: domain.StatusApproved,
		},
	})
	return joke, nil
}

// Reject transitions an approved joke back to unapproved. Rejecting a joke
// that is not approved trips the same idempotency guard as a double approve;
// the store cannot represent a rejection distinct from pending.
func (s *ModerationService) Reject(ctx context.Context, id string) (*domain.Joke, error) {
	joke, err := s.store.GetJoke(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to reject joke")
	}
	if !joke.Approved {
		return nil, apperrors.NewAlreadyProcessed("Joke has already been processed")
	}

	joke.Approved = false
	if _, err := s.store.UpdateJoke(ctx, joke.ID, jokestore.JokeInput{
		Content:  joke.Content,
		TypeID:   joke.TypeID,
		Approved: joke.Approved,
	}); err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to reject joke")
	}

	s.publishEvent(ctx, events.Event{
		Type:   events.EventJokeRejected,
		JokeID: joke.ID,
		Payload: events.JokeModeratedPayload{
			OldStatus: domain.StatusApproved,
			NewStatus: domain.StatusPending,
		},
	})
	return joke, nil
}

// GetJoke proxies a single fetch; the downstream store is the source of truth.
func (s *ModerationService) GetJoke(ctx context.Context, id string) (*domain.Joke, error) {
	joke, err := s.store.GetJoke(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to retrieve joke")
	}
	return joke, nil
}

// ListJokes proxies the full listing.
func (s *ModerationService) ListJokes(ctx context.Context) ([]domain.Joke, error) {
	jokes, err := s.store.ListJokes(ctx)
	if err != nil {
		return nil, mapStoreError(err, "Joke not found", "Failed to retrieve jokes")
	}
	return jokes, nil
}

// UpdateJoke proxies a full update of the joke record.
func (s *ModerationService) UpdateJoke(ctx context.Context, id string, input jokestore.JokeInput) (*domain.Joke, error) {
	joke, err := s.store.UpdateJoke(ctx, id, input)
	if err != nil {
		return nil, mapStoreError(err, "Joke Type not found", "Failed to update Joke Type")
	}
	return joke, nil
}

// DeleteJoke proxies a delete.
func (s *ModerationService) DeleteJoke(ctx context.Context, id string) error {
	if _, err := s.store.DeleteJoke(ctx, id); err != nil {
		return mapStoreError(err, "Joke Type not found", "Failed to delete Joke Type")
	}
	return nil
}

// CreateType registers a new joke category downstream.
func (s *ModerationService) CreateType(ctx context.Context, label string) (*domain.JokeType, error) {
	jokeType, err := s.store.CreateJokeType(ctx, label)
	if err != nil {
		return nil, mapStoreError(err, "Joke Type not found", "Failed to submit joke type")
	}
	return jokeType, nil
}

// mapStoreError folds client faults into the error taxonomy at the service
// boundary so nothing unmapped reaches the HTTP layer.
func mapStoreError(err error, notFoundMsg, downstreamMsg string) error {
	if errors.Is(err, jokestore.ErrNotFound) {
		return apperrors.NewNotFound(notFoundMsg)
	}
	var storeErr *jokestore.Error
	if errors.As(err, &storeErr) {
		return apperrors.NewDownstreamError(downstreamMsg, err)
	}
	return apperrors.NewInternalError(err)
}

func (s *ModerationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
