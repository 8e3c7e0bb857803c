package compose

import (
	"fmt"
	"time"

	"github.com/spec-kit/hr-intake/internal/domain"
	"github.com/spec-kit/hr-intake/internal/policy"
)

// Compose renders a policy decision into a complete IntentResult in the
// requested language. Templates are deterministic: identical inputs
// always produce identical text, which the response cache and the audit
// trail both rely on.
func Compose(d *policy.Decision, lang domain.Language, now time.Time) *domain.IntentResult {
	emp := d.Employee
	result := &domain.IntentResult{
		Intent:             d.Intent,
		Response:           responseFor(d, lang),
		Compliance:         d.Verdict,
		EscalationRequired: d.EscalationRequired,
		IsFinal:            d.IsFinal,
		AuditLog:           domain.FormatAuditLog(policy.AuditIntentTag(d.Intent), emp.ID, now, d.AuditTags...),
		Entities: domain.Entities{
			EmployeeID:   emp.ID,
			EmployeeName: emp.Name,
			Station:      emp.Station,
			Workgroup:    emp.Workgroup,
		},
		RuleChecks:   d.RuleChecks,
		SystemStatus: d.SystemStatus,
	}
	if d.Intent == domain.IntentTrainingReschedule {
		result.Entities.Shift = emp.FirstShift()
	}
	return result
}

// ReasonBadgeFor derives the three-way badge recorded on a ticket at
// creation time.
func ReasonBadgeFor(result *domain.IntentResult) domain.ReasonBadge {
	switch {
	case result.EscalationRequired:
		return domain.BadgeEscalated
	case result.Compliance == domain.VerdictFailed:
		return domain.BadgeComplianceFail
	default:
		return domain.BadgeAutoApproved
	}
}

func responseFor(d *policy.Decision, lang domain.Language) string {
	emp := d.Employee
	fr := lang == domain.LanguageFR

	switch d.Intent {
	case domain.IntentSickLeave:
		if fr {
			return fmt.Sprintf("Congé de maladie approuvé pour %s. Il vous reste %d jours.", emp.Name, emp.SickDaysRemaining)
		}
		return fmt.Sprintf("Sick leave approved for %s. You have %d days remaining.", emp.Name, emp.SickDaysRemaining)

	case domain.IntentOvertimeRequest:
		return overtimeResponse(d, fr)

	case domain.IntentTrainingReschedule:
		return trainingResponse(d, fr)
	}
	return ""
}

func overtimeResponse(d *policy.Decision, fr bool) string {
	emp := d.Employee
	limit := policy.MaxOvertimeHoursPerWeek

	switch d.Verdict {
	case domain.VerdictFailed:
		if fr {
			return fmt.Sprintf("Désolé %s, vous avez déjà utilisé vos %d heures supplémentaires cette semaine. Aucune heure sup. disponible jusqu'à la semaine prochaine (Règle syndicale 4.2).", emp.Name, limit)
		}
		return fmt.Sprintf("Sorry %s, you've already used all %d overtime hours this week. No additional overtime is available until next week (Union Rule 4.2).", emp.Name, limit)

	case domain.VerdictPending:
		if fr {
			return fmt.Sprintf("Bien sûr %s! Combien d'heures supplémentaires souhaitez-vous demander?", emp.Name)
		}
		return fmt.Sprintf("Sure %s! How many hours of overtime would you like to request?", emp.Name)

	case domain.VerdictEscalated:
		if fr {
			return fmt.Sprintf("Désolé %s, vous ne pouvez demander que %d heures de plus cette semaine (%d/%d utilisées). %dh dépasse la limite. Cette demande a été transmise aux RH pour examen.",
				emp.Name, d.AvailableHours, emp.OTHoursThisWeek, limit, d.RequestedHours)
		}
		return fmt.Sprintf("Sorry %s, you can only request up to %d more hours this week (%d/%d used). %d hours exceeds the limit. This request has been escalated to HR for review.",
			emp.Name, d.AvailableHours, emp.OTHoursThisWeek, limit, d.RequestedHours)

	default:
		if fr {
			return fmt.Sprintf("Heures sup. approuvées pour %s! %dh ajoutées. Vous avez maintenant %d/%d cette semaine.", emp.Name, d.RequestedHours, d.NewTotal, limit)
		}
		return fmt.Sprintf("Overtime approved for %s! %d hours added. You now have %d/%d OT this week.", emp.Name, d.RequestedHours, d.NewTotal, limit)
	}
}

func trainingResponse(d *policy.Decision, fr bool) string {
	emp := d.Employee
	training := emp.FirstTraining()
	if fr {
		detail := "Votre horaire de formation a été mis à jour."
		if training != nil {
			detail = fmt.Sprintf("Votre %s a été mise à jour.", training.Course)
		}
		return fmt.Sprintf("Modification de formation confirmée pour %s. %s Je procède à ce changement.", emp.Name, detail)
	}
	detail := "Your training schedule has been updated."
	if training != nil {
		detail = fmt.Sprintf("Your %s has been updated.", training.Course)
	}
	return fmt.Sprintf("Training reschedule confirmed for %s. %s I will proceed with this change.", emp.Name, detail)
}
