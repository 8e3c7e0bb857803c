package compose

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/nlu"
	"github.com/spec-kit/hr-intake/internal/policy"
)

var fixedNow = time.Date(2024, 12, 20, 15, 4, 5, 0, time.UTC)

func sickEmployee() *domain.Employee {
	return &domain.Employee{
		ID:                "AC78923",
		Name:              "Jean Tremblay",
		Station:           "YYZ",
		Workgroup:         "Ramp Services",
		Shifts:            []string{"06:00-14:00"},
		SickDaysRemaining: 7,
		OTHoursThisWeek:   11,
		Trainings:         []domain.TrainingRecord{{Course: "Security Refresher", Date: "Dec 22", Time: "10:00 AM"}},
	}
}

func TestComposeSickLeaveEnglish(t *testing.T) {
	d, ok := policy.Evaluate(domain.IntentSickLeave, nlu.Facts{}, sickEmployee())
	require.True(t, ok)

	result := Compose(d, domain.LanguageEN, fixedNow)
	assert.Equal(t, "Sick leave approved for Jean Tremblay. You have 7 days remaining.", result.Response)
	assert.Equal(t, domain.VerdictPassed, result.Compliance)
	assert.True(t, result.IsFinal)
	assert.Equal(t, "SICK_LEAVE|AC78923|2024-12-20T15:04:05Z|PASS", result.AuditLog)
	assert.Equal(t, "AC78923", result.Entities.EmployeeID)
	assert.Equal(t, "YYZ", result.Entities.Station)
	assert.Empty(t, result.Entities.Shift)
}

func TestComposeSickLeaveFrench(t *testing.T) {
	d, ok := policy.Evaluate(domain.IntentSickLeave, nlu.Facts{}, sickEmployee())
	require.True(t, ok)

	result := Compose(d, domain.LanguageFR, fixedNow)
	assert.Equal(t, "Congé de maladie approuvé pour Jean Tremblay. Il vous reste 7 jours.", result.Response)
}

func TestComposeOvertimeEscalated(t *testing.T) {
	hours := 2
	d, ok := policy.Evaluate(domain.IntentOvertimeRequest, nlu.Facts{Hours: &hours}, sickEmployee())
	require.True(t, ok)

	result := Compose(d, domain.LanguageEN, fixedNow)
	assert.Equal(t, "Sorry Jean Tremblay, you can only request up to 1 more hours this week (11/12 used). 2 hours exceeds the limit. This request has been escalated to HR for review.", result.Response)
	assert.True(t, result.EscalationRequired)
	assert.Equal(t, "OVERTIME|AC78923|2024-12-20T15:04:05Z|ESCALATED|EXCEEDS_LIMIT", result.AuditLog)
}

func TestComposeOvertimeAwaitingHoursNonFinal(t *testing.T) {
	emp := sickEmployee()
	emp.OTHoursThisWeek = 9
	d, ok := policy.Evaluate(domain.IntentOvertimeRequest, nlu.Facts{}, emp)
	require.True(t, ok)

	result := Compose(d, domain.LanguageEN, fixedNow)
	assert.Equal(t, "Sure Jean Tremblay! How many hours of overtime would you like to request?", result.Response)
	assert.False(t, result.IsFinal)
	assert.Equal(t, domain.VerdictPending, result.Compliance)
}

func TestComposeTrainingIncludesShift(t *testing.T) {
	d, ok := policy.Evaluate(domain.IntentTrainingReschedule, nlu.Facts{}, sickEmployee())
	require.True(t, ok)

	result := Compose(d, domain.LanguageEN, fixedNow)
	assert.Equal(t, "Training reschedule confirmed for Jean Tremblay. Your Security Refresher has been updated. I will proceed with this change.", result.Response)
	assert.Equal(t, "06:00-14:00", result.Entities.Shift)
}

func TestComposeDeterministic(t *testing.T) {
	// Identical inputs yield byte-identical responses; the cache and
	// the audit trail both depend on this.
	d, ok := policy.Evaluate(domain.IntentSickLeave, nlu.Facts{}, sickEmployee())
	require.True(t, ok)

	first := Compose(d, domain.LanguageEN, fixedNow)
	second := Compose(d, domain.LanguageEN, fixedNow)
	assert.Equal(t, first, second)
}

func TestReasonBadgeFor(t *testing.T) {
	tests := []struct {
		name   string
		result *domain.IntentResult
		want   domain.ReasonBadge
	}{
		{"escalated wins", &domain.IntentResult{EscalationRequired: true, Compliance: domain.VerdictFailed}, domain.BadgeEscalated},
		{"failed compliance", &domain.IntentResult{Compliance: domain.VerdictFailed}, domain.BadgeComplianceFail},
		{"passed", &domain.IntentResult{Compliance: domain.VerdictPassed}, domain.BadgeAutoApproved},
		{"pending defaults to auto", &domain.IntentResult{Compliance: domain.VerdictPending}, domain.BadgeAutoApproved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReasonBadgeFor(tt.result))
		})
	}
}

func TestWelcomeAndApologyLocalized(t *testing.T) {
	assert.NotEqual(t, Welcome(domain.LanguageEN), Welcome(domain.LanguageFR))
	assert.NotEqual(t, Apology(domain.LanguageEN), Apology(domain.LanguageFR))
}
