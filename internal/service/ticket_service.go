package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/hr-intake/internal/compose"
	"github.com/spec-kit/hr-intake/internal/directory"
	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/events"
	"github.com/spec-kit/hr-intake/internal/nlu"
	"github.com/spec-kit/hr-intake/internal/observability"
	"github.com/spec-kit/hr-intake/internal/policy"
	"github.com/spec-kit/hr-intake/internal/repository"
)

// TicketService owns the ticket lifecycle: creation from terminal
// decisions, best-effort synthesis for abandoned conversations, and the
// PENDING -> APPROVED|DENIED state machine.
type TicketService struct {
	tickets    repository.TicketRepository
	directory  directory.Directory
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	clock      func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Directory  directory.Directory
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		directory:  deps.Directory,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		clock:      clock,
	}
}

// CreateFromResult snapshots a terminal IntentResult into a PENDING
// ticket. Callers must only invoke it once per terminal result.
func (s *TicketService) CreateFromResult(ctx context.Context, result *domain.IntentResult, transcript domain.Transcript) (*domain.Ticket, error) {
	if result == nil || !result.IsFinal {
		return nil, errors.New("ticket requires a terminal intent result")
	}

	employeeName := result.Entities.EmployeeName
	if employeeName == "" {
		employeeName = "Unknown Employee"
	}

	now := s.clock()
	ticket := &domain.Ticket{
		ID:           s.newTicketID(now),
		EmployeeName: employeeName,
		EmployeeID:   result.Entities.EmployeeID,
		Type:         result.Intent,
		Status:       domain.TicketStatusPending,
		CreatedAt:    now,
		Transcript:   transcript,
		Summary:      result.Response,
		Entities:     result.Entities,
		Compliance:   result.Compliance,
		AuditLog:     result.AuditLog,
		ReasonBadge:  compose.ReasonBadgeFor(result),
		RuleChecks:   result.RuleChecks,
		SystemStatus: result.SystemStatus,
	}
	if ticket.AuditLog == "" {
		ticket.AuditLog = domain.FormatAuditLog(string(result.Intent), result.Entities.EmployeeID, now)
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.metrics.RecordTicket(string(ticket.Status))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			EmployeeID:  ticket.EmployeeID,
			Type:        ticket.Type,
			Compliance:  ticket.Compliance,
			ReasonBadge: ticket.ReasonBadge,
		},
	})
	return ticket, nil
}

// SynthesizeFromTranscript builds a best-effort ticket when a
// conversation ends before any turn reached finality. The whole
// transcript is re-scanned for an intent and an employee id so the
// interaction still yields a reviewable record.
func (s *TicketService) SynthesizeFromTranscript(ctx context.Context, transcript domain.Transcript, lang domain.Language) (*domain.Ticket, error) {
	if len(transcript) == 0 {
		return nil, errors.New("empty transcript")
	}

	var sb strings.Builder
	for _, turn := range transcript {
		sb.WriteString(strings.ToLower(turn.Text))
		sb.WriteString(" ")
	}
	text := sb.String()

	intent := synthesizedIntent(text)
	employeeID := nlu.ExtractEmployeeID(text)

	var emp *domain.Employee
	if employeeID != "" {
		found, err := s.directory.Lookup(ctx, employeeID)
		if err != nil && err != directory.ErrNotFound {
			s.logger.Warn("directory lookup during synthesis failed", zap.Error(err))
		}
		emp = found
	}

	employeeName := "Unknown Employee"
	entities := domain.Entities{EmployeeID: employeeID}
	compliance := domain.VerdictPending
	badge := domain.BadgePendingInfo
	var ruleChecks []domain.RuleCheck
	var systemStatus []domain.SystemStatus

	if emp != nil {
		employeeName = emp.Name
		entities.EmployeeName = emp.Name
		entities.Station = emp.Station
		entities.Workgroup = emp.Workgroup
		entities.Shift = emp.FirstShift()
		ruleChecks, systemStatus, compliance, badge = synthesizedChecks(intent, text, emp)
	} else {
		ruleChecks = []domain.RuleCheck{{
			Rule:    "Employee Verification",
			Result:  domain.RulePending,
			Details: "Awaiting employee ID verification",
		}}
		systemStatus = []domain.SystemStatus{{System: "Identity Verification", Status: domain.SystemStatusPending}}
	}

	now := s.clock()
	ticket := &domain.Ticket{
		ID:           s.newTicketID(now),
		EmployeeName: employeeName,
		EmployeeID:   employeeID,
		Type:         intent,
		Status:       domain.TicketStatusPending,
		CreatedAt:    now,
		Transcript:   transcript,
		Summary:      fmt.Sprintf("%s request from %s", strings.ReplaceAll(string(intent), "_", " "), employeeName),
		Entities:     entities,
		Compliance:   compliance,
		AuditLog:     domain.FormatAuditLog(string(intent), employeeID, now),
		ReasonBadge:  badge,
		RuleChecks:   ruleChecks,
		SystemStatus: systemStatus,
	}

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	s.metrics.RecordTicket(string(ticket.Status))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			EmployeeID:  ticket.EmployeeID,
			Type:        ticket.Type,
			Compliance:  ticket.Compliance,
			ReasonBadge: ticket.ReasonBadge,
		},
	})
	return ticket, nil
}

// Approve transitions a PENDING ticket to APPROVED. Unknown ids and
// non-PENDING tickets are logged no-ops, never errors.
func (s *TicketService) Approve(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.decide(ctx, ticketID, domain.TicketStatusApproved)
}

// Deny transitions a PENDING ticket to DENIED with the same no-op
// semantics as Approve.
func (s *TicketService) Deny(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.decide(ctx, ticketID, domain.TicketStatusDenied)
}

// GetTicket fetches one ticket.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// ListTickets returns tickets newest first.
func (s *TicketService) ListTickets(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, limit, offset)
}

func (s *TicketService) decide(ctx context.Context, ticketID string, status domain.TicketStatus) (*domain.Ticket, error) {
	updated, err := s.tickets.UpdateStatus(ctx, ticketID, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		s.logger.Info("ticket decision ignored",
			zap.String("ticket_id", ticketID),
			zap.String("requested_status", string(status)))
		return nil, nil
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordTicket(string(status))
	s.publish(ctx, events.Event{
		Type:     events.EventTicketDecided,
		TicketID: ticketID,
		Payload: events.TicketDecidedPayload{
			OldStatus: domain.TicketStatusPending,
			NewStatus: status,
		},
	})
	return ticket, nil
}

// Ticket ids embed creation time; the uuid fragment keeps two tickets
// created in the same second distinguishable.
func (s *TicketService) newTicketID(now time.Time) string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return fmt.Sprintf("REQ-%s-%s", now.UTC().Format("20060102T150405"), fragment)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func synthesizedIntent(text string) domain.IntentCategory {
	switch {
	case strings.Contains(text, "sick leave"), strings.Contains(text, "sick day"),
		strings.Contains(text, "appeler malade"), strings.Contains(text, "congé de maladie"):
		return domain.IntentSickLeave
	case strings.Contains(text, "overtime"), strings.Contains(text, "heures supplémentaires"),
		strings.Contains(text, " ot "):
		return domain.IntentOvertimeRequest
	case strings.Contains(text, "training"), strings.Contains(text, "reschedule"),
		strings.Contains(text, "formation"):
		return domain.IntentTrainingReschedule
	case strings.Contains(text, "balance"), strings.Contains(text, "solde"):
		return domain.IntentBalanceQuery
	default:
		return domain.IntentGeneralInquiry
	}
}

// synthesizedChecks refines the best-effort ticket with the same rule
// evidence the evaluator would have produced, preferring figures the
// assistant already spoke aloud over the directory record.
func synthesizedChecks(intent domain.IntentCategory, text string, emp *domain.Employee) ([]domain.RuleCheck, []domain.SystemStatus, domain.Verdict, domain.ReasonBadge) {
	switch intent {
	case domain.IntentSickLeave:
		days := emp.SickDaysRemaining
		if facts := nlu.Extract(text); facts.Days != nil {
			days = *facts.Days
		}
		result := domain.RuleFail
		compliance := domain.VerdictFailed
		badge := domain.BadgeInsufficientBalance
		if days > 0 {
			result = domain.RulePass
			compliance = domain.VerdictPassed
			badge = domain.BadgeAutoApproved
		}
		checks := []domain.RuleCheck{{
			Rule:    "Sick Day Balance",
			Result:  result,
			Details: fmt.Sprintf("%d sick days remaining", days),
		}}
		statuses := []domain.SystemStatus{
			{System: "PeopleSoft", Status: domain.SystemStatusPending},
			{System: "StaffAdmin", Status: domain.SystemStatusPending},
			{System: "Teams", Status: domain.SystemStatusPending},
		}
		return checks, statuses, compliance, badge

	case domain.IntentOvertimeRequest:
		used := emp.OTHoursThisWeek
		result := domain.RulePass
		compliance := domain.VerdictPending
		badge := domain.BadgePendingInfo
		if used >= policy.MaxOvertimeHoursPerWeek {
			result = domain.RuleFail
			compliance = domain.VerdictFailed
			badge = domain.BadgeOTLimitReached
		}
		checks := []domain.RuleCheck{{
			Rule:    "Weekly OT Limit (Union Rule 4.2)",
			Result:  result,
			Details: fmt.Sprintf("%d/%d hours used this week", used, policy.MaxOvertimeHoursPerWeek),
		}}
		statuses := []domain.SystemStatus{
			{System: "UnionCompliance", Status: "CHECKED"},
			{System: "WorkforcePlanning", Status: domain.SystemStatusPending},
		}
		return checks, statuses, compliance, badge

	case domain.IntentTrainingReschedule:
		checks := []domain.RuleCheck{{
			Rule:    "Rest Period (Rule 8.1)",
			Result:  domain.RulePending,
			Details: fmt.Sprintf("Minimum %d hours rest between shift and training", policy.MinRestHours),
		}}
		statuses := []domain.SystemStatus{
			{System: "TrainingSystem", Status: domain.SystemStatusPending},
			{System: "Calendar", Status: domain.SystemStatusPending},
		}
		return checks, statuses, domain.VerdictPending, domain.BadgePendingInfo

	default:
		return nil, nil, domain.VerdictPending, domain.BadgePendingInfo
	}
}
