package nlu

import (
	"regexp"
	"strconv"
	"strings"
)

// Facts holds the structured values pulled out of one utterance.
// Extraction is best-effort: unmatched fields stay nil/empty, never an
// error.
type Facts struct {
	EmployeeID string
	Hours      *int
	Days       *int
}

var (
	employeeIDPattern = regexp.MustCompile(`(?i)[a-z]{2}\d{5}`)
	hoursPattern      = regexp.MustCompile(`(?i)(\d+)\s*(?:hours?|h\b)`)
	// The remaining/left qualifier guards against matching unrelated
	// numbers ("3 days ago" must not read as a balance).
	daysPattern = regexp.MustCompile(`(?i)(\d+)\s*(?:sick\s*)?days?\s*(?:remaining|left|available)`)
)

// Extract pulls an employee id and numeric hour/day counts from free
// text. First match wins for every field.
func Extract(text string) Facts {
	facts := Facts{}
	if m := employeeIDPattern.FindString(text); m != "" {
		facts.EmployeeID = strings.ToUpper(m)
	}
	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			facts.Hours = &n
		}
	}
	if m := daysPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			facts.Days = &n
		}
	}
	return facts
}

// ExtractEmployeeID returns only the employee identifier, if present.
func ExtractEmployeeID(text string) string {
	if m := employeeIDPattern.FindString(text); m != "" {
		return strings.ToUpper(m)
	}
	return ""
}
