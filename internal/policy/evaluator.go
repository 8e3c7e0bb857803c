package policy

import (
	"fmt"

	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/nlu"
)

// Decision is the rule-evaluation outcome for one utterance, before any
// response text is composed. Each branch is independent; the evaluator
// holds no state across calls.
type Decision struct {
	Intent             domain.IntentCategory
	Verdict            domain.Verdict
	EscalationRequired bool
	IsFinal            bool
	RuleChecks         []domain.RuleCheck
	SystemStatus       []domain.SystemStatus
	AuditTags          []string
	Employee           *domain.Employee

	// Overtime branch figures, used by the composer.
	RequestedHours int
	NewTotal       int
	AvailableHours int
}

// AuditIntentTag returns the intent token used in audit log entries.
// Overtime historically logs as OVERTIME; the trail format is stable.
func AuditIntentTag(intent domain.IntentCategory) string {
	if intent == domain.IntentOvertimeRequest {
		return "OVERTIME"
	}
	return string(intent)
}

// Evaluate applies the deterministic policy rules for the resolved
// intent. ok is false when the request cannot be resolved locally:
// missing intent, missing employee, an intent without local rules, or a
// sick-leave request with no remaining balance. Those route to the
// fallback collaborator rather than guessing.
func Evaluate(intent domain.IntentCategory, facts nlu.Facts, emp *domain.Employee) (*Decision, bool) {
	if intent == "" || emp == nil {
		return nil, false
	}

	switch intent {
	case domain.IntentSickLeave:
		return evaluateSickLeave(emp)
	case domain.IntentOvertimeRequest:
		return evaluateOvertime(facts, emp)
	case domain.IntentTrainingReschedule:
		return evaluateTrainingReschedule(emp)
	default:
		return nil, false
	}
}

func evaluateSickLeave(emp *domain.Employee) (*Decision, bool) {
	if emp.SickDaysRemaining <= 0 {
		// Zero balance is escalated through the fallback/human path,
		// never auto-denied locally.
		return nil, false
	}
	return &Decision{
		Intent:   domain.IntentSickLeave,
		Verdict:  domain.VerdictPassed,
		IsFinal:  true,
		Employee: emp,
		RuleChecks: []domain.RuleCheck{{
			Rule:    "Sick Day Balance",
			Result:  domain.RulePass,
			Details: fmt.Sprintf("%d days remaining", emp.SickDaysRemaining),
		}},
		SystemStatus: []domain.SystemStatus{
			{System: "PeopleSoft", Status: domain.SystemStatusUpdated},
			{System: "StaffAdmin", Status: domain.SystemStatusUpdated},
		},
		AuditTags: []string{"PASS"},
	}, true
}

func evaluateOvertime(facts nlu.Facts, emp *domain.Employee) (*Decision, bool) {
	if emp.OTHoursThisWeek >= MaxOvertimeHoursPerWeek {
		return &Decision{
			Intent:   domain.IntentOvertimeRequest,
			Verdict:  domain.VerdictFailed,
			IsFinal:  true,
			Employee: emp,
			RuleChecks: []domain.RuleCheck{{
				Rule:    "Weekly OT Limit (Union Rule 4.2)",
				Result:  domain.RuleFail,
				Details: fmt.Sprintf("%d/%d hours used - at maximum limit", emp.OTHoursThisWeek, MaxOvertimeHoursPerWeek),
			}},
			SystemStatus: []domain.SystemStatus{
				{System: "UnionCompliance", Status: domain.SystemStatusBlocked},
			},
			AuditTags: []string{"FAIL", "AT_LIMIT"},
		}, true
	}

	if facts.Hours == nil {
		// Under the limit but no hour count given: ask a follow-up.
		return &Decision{
			Intent:    domain.IntentOvertimeRequest,
			Verdict:   domain.VerdictPending,
			IsFinal:   false,
			Employee:  emp,
			AuditTags: []string{"PENDING", "AWAITING_HOURS"},
		}, true
	}

	requested := *facts.Hours
	if emp.OTHoursThisWeek+requested > MaxOvertimeHoursPerWeek {
		return &Decision{
			Intent:             domain.IntentOvertimeRequest,
			Verdict:            domain.VerdictEscalated,
			EscalationRequired: true,
			IsFinal:            true,
			Employee:           emp,
			RequestedHours:     requested,
			AvailableHours:     MaxOvertimeHoursPerWeek - emp.OTHoursThisWeek,
			RuleChecks: []domain.RuleCheck{{
				Rule:    "Weekly OT Limit (Union Rule 4.2)",
				Result:  domain.RuleFail,
				Details: fmt.Sprintf("%d+%d would exceed %dhr limit - ESCALATED", emp.OTHoursThisWeek, requested, MaxOvertimeHoursPerWeek),
			}},
			SystemStatus: []domain.SystemStatus{
				{System: "UnionCompliance", Status: domain.SystemStatusEscalated},
				{System: "HR Planner", Status: domain.SystemStatusPendingReview},
			},
			AuditTags: []string{"ESCALATED", "EXCEEDS_LIMIT"},
		}, true
	}

	newTotal := emp.OTHoursThisWeek + requested
	return &Decision{
		Intent:         domain.IntentOvertimeRequest,
		Verdict:        domain.VerdictPassed,
		IsFinal:        true,
		Employee:       emp,
		RequestedHours: requested,
		NewTotal:       newTotal,
		RuleChecks: []domain.RuleCheck{{
			Rule:    "Weekly OT Limit (Union Rule 4.2)",
			Result:  domain.RulePass,
			Details: fmt.Sprintf("%d+%d=%d/%d hours", emp.OTHoursThisWeek, requested, newTotal, MaxOvertimeHoursPerWeek),
		}},
		SystemStatus: []domain.SystemStatus{
			{System: "UnionCompliance", Status: domain.SystemStatusApproved},
			{System: "WorkforcePlanning", Status: domain.SystemStatusUpdated},
		},
		AuditTags: []string{"PASS"},
	}, true
}

func evaluateTrainingReschedule(emp *domain.Employee) (*Decision, bool) {
	// The rest-period rule is asserted, not re-derived from shift data,
	// in the local path.
	return &Decision{
		Intent:   domain.IntentTrainingReschedule,
		Verdict:  domain.VerdictPassed,
		IsFinal:  true,
		Employee: emp,
		RuleChecks: []domain.RuleCheck{{
			Rule:    "Rest Period (Rule 8.1)",
			Result:  domain.RulePass,
			Details: fmt.Sprintf("Minimum %d hours rest between shift and training maintained", MinRestHours),
		}},
		SystemStatus: []domain.SystemStatus{
			{System: "TrainingSystem", Status: domain.SystemStatusUpdated},
			{System: "Calendar", Status: domain.SystemStatusBlocked},
			{System: "Teams", Status: domain.SystemStatusNotified},
		},
		AuditTags: []string{"PASS"},
	}, true
}
