package domain

// TrainingRecord is one scheduled training session for an employee.
type TrainingRecord struct {
	Course string
	Date   string
	Time   string
}

// Employee is the read-only directory record for one staff member.
// The engine never mutates an Employee; decrementing balances is an
// outcome of an approved ticket handled by back-office systems.
type Employee struct {
	ID                string
	Name              string
	Station           string
	Workgroup         string
	Bilingual         bool
	Skills            []string
	Shifts            []string
	Contact           string
	SickDaysRemaining int
	OTHoursThisWeek   int
	Trainings         []TrainingRecord
}

// FirstShift returns the employee's first shift window, if any.
func (e *Employee) FirstShift() string {
	if len(e.Shifts) == 0 {
		return ""
	}
	return e.Shifts[0]
}

// FirstTraining returns the next scheduled training, if any.
func (e *Employee) FirstTraining() *TrainingRecord {
	if len(e.Trainings) == 0 {
		return nil
	}
	return &e.Trainings[0]
}
