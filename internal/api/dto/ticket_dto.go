package dto

import (
	"time"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// TicketSummary is the list-view projection of a ticket.
type TicketSummary struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employee_name"`
	EmployeeID   string    `json:"employee_id"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	Compliance   string    `json:"compliance"`
	ReasonBadge  string    `json:"reason_badge"`
	Summary      string    `json:"summary"`
	CreatedAt    time.Time `json:"created_at"`
}

// TicketDetailResponse includes the full audit evidence.
type TicketDetailResponse struct {
	TicketSummary
	Transcript   []TurnResponse        `json:"transcript"`
	Entities     domain.Entities       `json:"entities"`
	AuditLog     string                `json:"audit_log"`
	RuleChecks   []domain.RuleCheck    `json:"rule_checks"`
	SystemStatus []domain.SystemStatus `json:"system_status"`
}

// NewTicketSummary projects a domain ticket.
func NewTicketSummary(ticket *domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:           ticket.ID,
		EmployeeName: ticket.EmployeeName,
		EmployeeID:   ticket.EmployeeID,
		Type:         string(ticket.Type),
		Status:       string(ticket.Status),
		Compliance:   string(ticket.Compliance),
		ReasonBadge:  string(ticket.ReasonBadge),
		Summary:      ticket.Summary,
		CreatedAt:    ticket.CreatedAt,
	}
}

// NewTicketDetail projects a domain ticket with its evidence.
func NewTicketDetail(ticket *domain.Ticket) TicketDetailResponse {
	return TicketDetailResponse{
		TicketSummary: NewTicketSummary(ticket),
		Transcript:    TurnResponses(ticket.Transcript),
		Entities:      ticket.Entities,
		AuditLog:      ticket.AuditLog,
		RuleChecks:    ticket.RuleChecks,
		SystemStatus:  ticket.SystemStatus,
	}
}
