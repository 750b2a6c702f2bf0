package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/joke-moderation-service/internal/api/dto"
	"github.com/spec-kit/joke-moderation-service/internal/jokestore"
	"github.com/spec-kit/joke-moderation-service/internal/service"
	apperrors "github.com/spec-kit/joke-moderation-service/pkg/util"
)

// JokesHandler exposes the moderation workflow and the joke pass-throughs.
// Routing only; every decision lives in the service.
type JokesHandler struct {
	service *service.ModerationService
}

// NewJokesHandler constructs handler.
func NewJokesHandler(moderationService *service.ModerationService) *JokesHandler {
	return &JokesHandler{service: moderationService}
}

// Submit POST /joke.
func (h *JokesHandler) Submit(c *fiber.Ctx) error {
	var req dto.SubmitJokeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	joke, err := h.service.Submit(c.UserContext(), req.Content, req.Type)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.JokeMessageResponse{
		Message: "Joke submitted for moderation",
		Joke:    dto.NewJokeResponse(joke),
	})
}

// GetByID GET /joke/:id.
func (h *JokesHandler) GetByID(c *fiber.Ctx) error {
	joke, err := h.service.GetJoke(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewJokeResponse(joke))
}

// List GET /jokes.
func (h *JokesHandler) List(c *fiber.Ctx) error {
	jokes, err := h.service.ListJokes(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.JokeResponse, 0, len(jokes))
	for i := range jokes {
		items = append(items, dto.NewJokeResponse(&jokes[i]))
	}
	return c.JSON(items)
}

// Update PUT /joke/:id.
func (h *JokesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateJokeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	joke, err := h.service.UpdateJoke(c.UserContext(), c.Params("id"), jokestore.JokeInput{
		Content:  req.Content,
		TypeID:   req.Type,
		Approved: req.Approved,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.JokeUpdateResponse{
		Message:  "Joke Type updated successfully",
		JokeType: dto.NewJokeResponse(joke),
	})
}

// Delete DELETE /joke/:id.
func (h *JokesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.DeleteJoke(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Joke Type deleted successfully"})
}

// Approve PUT /joke/:id/approve.
func (h *JokesHandler) Approve(c *fiber.Ctx) error {
	joke, err := h.service.Approve(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.JokeMessageResponse{
		Message: "Joke approved and submitted",
		Joke:    dto.NewJokeResponse(joke),
	})
}

// Reject PUT /joke/:id/reject.
func (h *JokesHandler) Reject(c *fiber.Ctx) error {
	joke, err := h.service.Reject(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.JokeMessageResponse{
		Message: "Joke rejected and updated",
		Joke:    dto.NewJokeResponse(joke),
	})
}

// CreateType POST /joke-type.
func (h *JokesHandler) CreateType(c *fiber.Ctx) error {
	var req dto.CreateJokeTypeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}

	jokeType, err := h.service.CreateType(c.UserContext(), req.Type)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewJokeTypeResponse(jokeType))
}
