package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/interference-service/internal/api/dto"
	"github.com/spec-kit/interference-service/internal/auth"
	"github.com/spec-kit/interference-service/internal/service"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

// AuthHandler exposes login and session endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	user, token, err := h.auth.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		User: dto.NewUserResponse(user),
		Auth: dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
	}})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": dto.NewSessionResponse(session)})
}
