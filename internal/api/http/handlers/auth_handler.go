package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-intake/internal/api/dto"
	"github.com/spec-kit/hr-intake/internal/service"
	apperrors "github.com/spec-kit/hr-intake/pkg/util/errorutil"
)

// AuthHandler exposes login for the demo principals.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.UserID == "" || req.Password == "" {
		return apperrors.NewValidationError("user_id, password required", nil)
	}

	result, err := h.service.Login(req.UserID, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		UserID:    result.UserID,
		UserName:  result.UserName,
		Role:      string(result.Role),
	}})
}
