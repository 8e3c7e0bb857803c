package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/nlu"
)

func testEmployee(sick, ot int) *domain.Employee {
	return &domain.Employee{
		ID:                "AC78923",
		Name:              "Jean Tremblay",
		Station:           "YYZ",
		Workgroup:         "Ramp Services",
		SickDaysRemaining: sick,
		OTHoursThisWeek:   ot,
	}
}

func TestEvaluateRequiresIntentAndEmployee(t *testing.T) {
	_, ok := Evaluate("", nlu.Facts{}, testEmployee(5, 0))
	assert.False(t, ok)

	_, ok = Evaluate(domain.IntentSickLeave, nlu.Facts{}, nil)
	assert.False(t, ok)

	// Balance queries have no local rules.
	_, ok = Evaluate(domain.IntentBalanceQuery, nlu.Facts{}, testEmployee(5, 0))
	assert.False(t, ok)
}

func TestEvaluateSickLeave(t *testing.T) {
	d, ok := Evaluate(domain.IntentSickLeave, nlu.Facts{}, testEmployee(7, 0))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictPassed, d.Verdict)
	assert.True(t, d.IsFinal)
	assert.False(t, d.EscalationRequired)
	require.Len(t, d.RuleChecks, 1)
	assert.Equal(t, "Sick Day Balance", d.RuleChecks[0].Rule)
	assert.Equal(t, domain.RulePass, d.RuleChecks[0].Result)
	assert.Equal(t, "7 days remaining", d.RuleChecks[0].Details)
	assert.Equal(t, []string{"PASS"}, d.AuditTags)
}

func TestEvaluateSickLeaveZeroBalanceNotLocal(t *testing.T) {
	// Exhausted balance routes to the fallback instead of auto-denying.
	_, ok := Evaluate(domain.IntentSickLeave, nlu.Facts{}, testEmployee(0, 0))
	assert.False(t, ok)
}

func TestEvaluateOvertimeAtLimit(t *testing.T) {
	// 12 of 12 used: hard fail even before asking for an hour count.
	hours := 2
	d, ok := Evaluate(domain.IntentOvertimeRequest, nlu.Facts{Hours: &hours}, testEmployee(3, MaxOvertimeHoursPerWeek))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictFailed, d.Verdict)
	assert.True(t, d.IsFinal)
	assert.False(t, d.EscalationRequired)
	require.Len(t, d.RuleChecks, 1)
	assert.Equal(t, domain.RuleFail, d.RuleChecks[0].Result)
	assert.Equal(t, []string{"FAIL", "AT_LIMIT"}, d.AuditTags)
	require.Len(t, d.SystemStatus, 1)
	assert.Equal(t, domain.SystemStatusBlocked, d.SystemStatus[0].Status)
}

func TestEvaluateOvertimeAwaitingHours(t *testing.T) {
	d, ok := Evaluate(domain.IntentOvertimeRequest, nlu.Facts{}, testEmployee(3, 9))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictPending, d.Verdict)
	assert.False(t, d.IsFinal)
	assert.Equal(t, []string{"PENDING", "AWAITING_HOURS"}, d.AuditTags)
}

func TestEvaluateOvertimeExceedsLimitEscalates(t *testing.T) {
	// 11 used + 2 requested = 13 > 12: escalate, never silently trim.
	hours := 2
	d, ok := Evaluate(domain.IntentOvertimeRequest, nlu.Facts{Hours: &hours}, testEmployee(7, 11))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictEscalated, d.Verdict)
	assert.True(t, d.EscalationRequired)
	assert.True(t, d.IsFinal)
	assert.Equal(t, 2, d.RequestedHours)
	assert.Equal(t, 1, d.AvailableHours)
	assert.Equal(t, []string{"ESCALATED", "EXCEEDS_LIMIT"}, d.AuditTags)
	require.Len(t, d.SystemStatus, 2)
	assert.Equal(t, domain.SystemStatusEscalated, d.SystemStatus[0].Status)
	assert.Equal(t, domain.SystemStatusPendingReview, d.SystemStatus[1].Status)
}

func TestEvaluateOvertimeApproved(t *testing.T) {
	hours := 2
	d, ok := Evaluate(domain.IntentOvertimeRequest, nlu.Facts{Hours: &hours}, testEmployee(7, 9))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictPassed, d.Verdict)
	assert.True(t, d.IsFinal)
	assert.Equal(t, 11, d.NewTotal)
	require.Len(t, d.RuleChecks, 1)
	assert.Equal(t, "9+2=11/12 hours", d.RuleChecks[0].Details)
}

func TestEvaluateOvertimeInclusiveBoundary(t *testing.T) {
	// Landing exactly on the ceiling is allowed.
	hours := 3
	d, ok := Evaluate(domain.IntentOvertimeRequest, nlu.Facts{Hours: &hours}, testEmployee(7, 9))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictPassed, d.Verdict)
	assert.Equal(t, MaxOvertimeHoursPerWeek, d.NewTotal)
}

func TestEvaluateTrainingReschedule(t *testing.T) {
	d, ok := Evaluate(domain.IntentTrainingReschedule, nlu.Facts{}, testEmployee(7, 0))
	require.True(t, ok)
	assert.Equal(t, domain.VerdictPassed, d.Verdict)
	assert.True(t, d.IsFinal)
	require.Len(t, d.RuleChecks, 1)
	assert.Equal(t, "Rest Period (Rule 8.1)", d.RuleChecks[0].Rule)
	require.Len(t, d.SystemStatus, 3)
}

func TestAuditIntentTag(t *testing.T) {
	assert.Equal(t, "OVERTIME", AuditIntentTag(domain.IntentOvertimeRequest))
	assert.Equal(t, "SICK_LEAVE", AuditIntentTag(domain.IntentSickLeave))
}
