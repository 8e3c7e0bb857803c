package domain

import (
	"strings"
	"time"
)

// IntentCategory is the closed set of request categories the engine
// resolves. Anything else is routed to the fallback collaborator.
type IntentCategory string

const (
	IntentSickLeave          IntentCategory = "SICK_LEAVE"
	IntentOvertimeRequest    IntentCategory = "OVERTIME_REQUEST"
	IntentTrainingReschedule IntentCategory = "TRAINING_RESCHEDULE"
	IntentBalanceQuery       IntentCategory = "BALANCE_QUERY"
	IntentGeneralInquiry     IntentCategory = "GENERAL_INQUIRY"
	IntentUnknown            IntentCategory = "UNKNOWN"
)

// Verdict is the compliance outcome of evaluating a request.
type Verdict string

const (
	VerdictPassed    Verdict = "PASSED"
	VerdictFailed    Verdict = "FAILED"
	VerdictPending   Verdict = "PENDING"
	VerdictEscalated Verdict = "ESCALATED"
)

// RuleResult is the outcome of one policy rule check.
type RuleResult string

const (
	RulePass    RuleResult = "PASS"
	RuleFail    RuleResult = "FAIL"
	RulePending RuleResult = "PENDING"
)

// RuleCheck records one policy rule applied to a request.
type RuleCheck struct {
	Rule    string     `json:"rule"`
	Result  RuleResult `json:"result"`
	Details string     `json:"details"`
}

// SystemStatus declares which downstream system a decision would touch.
// No actual integration occurs here.
type SystemStatus struct {
	System string `json:"system"`
	Status string `json:"status"`
}

const (
	SystemStatusUpdated       = "UPDATED"
	SystemStatusPending       = "PENDING"
	SystemStatusBlocked       = "BLOCKED"
	SystemStatusNotified      = "NOTIFIED"
	SystemStatusApproved      = "APPROVED"
	SystemStatusEscalated     = "ESCALATED"
	SystemStatusPendingReview = "PENDING_REVIEW"
)

// Entities is the extracted-fact bag attached to a decision. Fields are
// named rather than an open map so missing data is visible at compile
// time; absent values stay zero.
type Entities struct {
	EmployeeID   string `json:"employeeId,omitempty"`
	EmployeeName string `json:"employeeName,omitempty"`
	Station      string `json:"station,omitempty"`
	Workgroup    string `json:"workgroup,omitempty"`
	Shift        string `json:"shift,omitempty"`
}

// IntentResult is the classification and evaluation outcome for one
// employee utterance. Produced fresh per turn and never mutated; the
// next turn supersedes it with a new result.
type IntentResult struct {
	Intent             IntentCategory `json:"intent"`
	Response           string         `json:"response"`
	Compliance         Verdict        `json:"complianceStatus"`
	EscalationRequired bool           `json:"escalationRequired"`
	IsFinal            bool           `json:"isFinal"`
	AuditLog           string         `json:"auditLog"`
	Entities           Entities       `json:"extractedData"`
	RuleChecks         []RuleCheck    `json:"ruleChecks"`
	SystemStatus       []SystemStatus `json:"systemStatus"`
}

// FormatAuditLog builds the pipe-delimited compliance trail entry:
// <INTENT>|<employeeId>|<ISO8601 timestamp>|<optional outcome tags>.
// The format is stable; auditors parse it.
func FormatAuditLog(intentTag, employeeID string, ts time.Time, tags ...string) string {
	parts := []string{intentTag, employeeID, ts.UTC().Format(time.RFC3339)}
	parts = append(parts, tags...)
	return strings.Join(parts, "|")
}
