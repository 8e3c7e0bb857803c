package domain

import "time"

// TicketStatus enumerates ticket lifecycle states. PENDING is the only
// initial state; APPROVED and DENIED are terminal.
type TicketStatus string

const (
	TicketStatusPending  TicketStatus = "PENDING"
	TicketStatusApproved TicketStatus = "APPROVED"
	TicketStatusDenied   TicketStatus = "DENIED"
)

// Terminal reports whether no further transitions are allowed.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusApproved || s == TicketStatusDenied
}

// ReasonBadge is a short classification of why a ticket landed in its
// current state. Computed once at creation, never recomputed.
type ReasonBadge string

const (
	BadgeAutoApproved        ReasonBadge = "AUTO_APPROVED"
	BadgeComplianceFail      ReasonBadge = "COMPLIANCE_FAIL"
	BadgeEscalated           ReasonBadge = "ESCALATED"
	BadgePendingInfo         ReasonBadge = "PENDING_INFO"
	BadgeInsufficientBalance ReasonBadge = "INSUFFICIENT_BALANCE"
	BadgeOTLimitReached      ReasonBadge = "OT_LIMIT_REACHED"
)

// Ticket is the durable artifact created when a conversation reaches a
// terminal decision, or synthesized best-effort when it ends without one.
type Ticket struct {
	ID           string
	EmployeeName string
	EmployeeID   string
	Type         IntentCategory
	Status       TicketStatus
	CreatedAt    time.Time
	Transcript   Transcript
	Summary      string
	Entities     Entities
	Compliance   Verdict
	AuditLog     string
	ReasonBadge  ReasonBadge
	RuleChecks   []RuleCheck
	SystemStatus []SystemStatus
}
