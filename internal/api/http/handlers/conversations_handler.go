package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-intake/internal/api/dto"
	"github.com/spec-kit/hr-intake/internal/auth"
	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/service"
	apperrors "github.com/spec-kit/hr-intake/pkg/util/errorutil"
)

// ConversationsHandler manages the intake session endpoints.
type ConversationsHandler struct {
	service *service.ConversationService
}

// NewConversationsHandler constructs handler.
func NewConversationsHandler(conversationService *service.ConversationService) *ConversationsHandler {
	return &ConversationsHandler{service: conversationService}
}

// Start POST /conversations. The authenticated employee id seeds the
// session; HR planners start sessions without a bound employee.
func (h *ConversationsHandler) Start(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	// Body is optional; language defaults to English.
	var req dto.StartConversationRequest
	_ = c.BodyParser(&req)
	lang := domain.ParseLanguage(req.Language)

	employeeID := ""
	if principal.Role == domain.RoleEmployee {
		employeeID = principal.UserID
	}

	sessionID, transcript, err := h.service.Start(c.Context(), employeeID, lang)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.StartConversationResponse{
		SessionID:  sessionID,
		Language:   string(lang),
		Transcript: dto.TurnResponses(transcript),
	}})
}

// SubmitTurn POST /conversations/:id/turns.
func (h *ConversationsHandler) SubmitTurn(c *fiber.Ctx) error {
	var req dto.SubmitTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Text) == "" {
		return apperrors.NewValidationError("text required", nil)
	}

	outcome, err := h.service.Submit(c.Context(), c.Params("id"), req.Text)
	if err != nil {
		return mapConversationError(err)
	}

	resp := dto.SubmitTurnResponse{Result: outcome.Result}
	if outcome.Ticket != nil {
		summary := dto.NewTicketSummary(outcome.Ticket)
		resp.Ticket = &summary
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Transcript GET /conversations/:id.
func (h *ConversationsHandler) Transcript(c *fiber.Ctx) error {
	transcript, err := h.service.Transcript(c.Context(), c.Params("id"))
	if err != nil {
		return mapConversationError(err)
	}
	return c.JSON(fiber.Map{"data": dto.TranscriptResponse{
		SessionID:  c.Params("id"),
		Transcript: dto.TurnResponses(transcript),
	}})
}

// Close POST /conversations/:id/close.
func (h *ConversationsHandler) Close(c *fiber.Ctx) error {
	ticket, err := h.service.Close(c.Context(), c.Params("id"))
	if err != nil {
		return mapConversationError(err)
	}

	resp := dto.CloseConversationResponse{}
	if ticket != nil {
		summary := dto.NewTicketSummary(ticket)
		resp.Ticket = &summary
	}
	return c.JSON(fiber.Map{"data": resp})
}

func mapConversationError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return apperrors.NewNotFound("conversation", nil)
	case errors.Is(err, service.ErrConversationClosed):
		return apperrors.NewConflict("conversation already closed", nil)
	default:
		return err
	}
}
