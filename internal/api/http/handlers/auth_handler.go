package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/joke-moderation-service/internal/api/dto"
	"github.com/spec-kit/joke-moderation-service/internal/service"
	apperrors "github.com/spec-kit/joke-moderation-service/pkg/util"
)

// AuthHandler exposes the credential exchange endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Authenticate handles POST /authenticate.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.AuthenticateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required")
	}

	token, err := h.auth.VerifyCredentials(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(dto.AuthResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
	})
}
