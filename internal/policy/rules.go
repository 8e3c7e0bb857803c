package policy

// Workplace policy constants. Thresholds are inclusive at the boundary
// they name: >= MaxOvertimeHoursPerWeek is "at or over the limit",
// > 0 sick days is "any positive remaining balance".
const (
	// Canada Labour Code minimum.
	MaxSickDaysPerYear = 10
	// Medical note required after this many consecutive days.
	MedicalNoteThresholdDays = 5
	SickDayCarryoverMax      = 10

	StandardHoursPerWeek = 40
	// Union Rule 4.2: maximum overtime hours per week.
	MaxOvertimeHoursPerWeek = 12
	OvertimeRate            = 1.5

	// Rule 8.1: minimum rest between shift end and training start.
	MinRestHours             = 10
	MinRescheduleNoticeHours = 24
)
