package events

import (
	"time"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated      EventType = "ticket_created"
	EventTicketDecided      EventType = "ticket_decided"
	EventConversationClosed EventType = "conversation_closed"
	EventTurnEscalated      EventType = "turn_escalated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	EmployeeID  string                `json:"employee_id"`
	Type        domain.IntentCategory `json:"type"`
	Compliance  domain.Verdict        `json:"compliance"`
	ReasonBadge domain.ReasonBadge    `json:"reason_badge"`
}

// TicketDecidedPayload payload.
type TicketDecidedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// ConversationClosedPayload payload.
type ConversationClosedPayload struct {
	SessionID    string `json:"session_id"`
	TurnCount    int    `json:"turn_count"`
	ReachedFinal bool   `json:"reached_final"`
}

// TurnEscalatedPayload payload.
type TurnEscalatedPayload struct {
	EmployeeID string                `json:"employee_id"`
	Intent     domain.IntentCategory `json:"intent"`
	AuditLog   string                `json:"audit_log"`
}
