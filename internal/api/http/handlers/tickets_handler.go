package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hr-intake/internal/api/dto"
	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/repository"
	"github.com/spec-kit/hr-intake/internal/service"
	apperrors "github.com/spec-kit/hr-intake/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket review surface for HR planners.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)

	tickets, err := h.service.ListTickets(c.Context(), pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.TicketSummary, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketSummary(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return apperrors.NewNotFound("ticket", nil)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketDetail(ticket)})
}

// Approve POST /tickets/:id/approve.
func (h *TicketsHandler) Approve(c *fiber.Ctx) error {
	ticket, err := h.service.Approve(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return decisionResponse(c, ticket)
}

// Deny POST /tickets/:id/deny.
func (h *TicketsHandler) Deny(c *fiber.Ctx) error {
	ticket, err := h.service.Deny(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return decisionResponse(c, ticket)
}

// decisionResponse reports a no-op decision as applied=false rather
// than an error; re-deciding a ticket is harmless.
func decisionResponse(c *fiber.Ctx, ticket *domain.Ticket) error {
	if ticket == nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"applied": false}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"applied": true,
		"ticket":  dto.NewTicketSummary(ticket),
	}})
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
