package directory

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// SeedEmployees is the reference roster used in development and tests.
func SeedEmployees() []domain.Employee {
	return []domain.Employee{
		{
			ID:                "AC78923",
			Name:              "Jean Tremblay",
			Station:           "YYZ",
			Workgroup:         "Ramp Services",
			Bilingual:         true,
			Skills:            []string{"Baggage", "Safety"},
			Shifts:            []string{"06:00-14:00"},
			Contact:           "555-0123",
			SickDaysRemaining: 7,
			OTHoursThisWeek:   11,
			Trainings:         []domain.TrainingRecord{{Course: "Security Refresher", Date: "Dec 22", Time: "10:00 AM"}},
		},
		{
			ID:                "AC45678",
			Name:              "Sarah Liu",
			Station:           "YVR",
			Workgroup:         "Ramp Services",
			Bilingual:         false,
			Skills:            []string{"Customer Service"},
			Shifts:            []string{"08:00-16:00"},
			Contact:           "555-0124",
			SickDaysRemaining: 3,
			OTHoursThisWeek:   12,
			Trainings:         []domain.TrainingRecord{{Course: "Safety Training", Date: "Dec 23", Time: "02:00 PM"}},
		},
		{
			ID:                "AC90123",
			Name:              "Pierre Martin",
			Station:           "YUL",
			Workgroup:         "Gate Ops",
			Bilingual:         true,
			Skills:            []string{"Ticketing"},
			Shifts:            []string{"14:00-22:00"},
			Contact:           "555-9999",
			SickDaysRemaining: 10,
			OTHoursThisWeek:   0,
			Trainings:         []domain.TrainingRecord{{Course: "Security Refresher", Date: "Dec 22", Time: "10:00 AM"}},
		},
	}
}

type seedLogin struct {
	userID   string
	password string
	name     string
	role     domain.Role
}

// SeedCredentials hashes the development logins at startup. Cost stays
// at bcrypt's default; these accounts exist only for local use.
func SeedCredentials() ([]domain.Credential, error) {
	logins := []seedLogin{
		{"AC78923", "jean123", "Jean Tremblay", domain.RoleEmployee},
		{"AC45678", "sarah123", "Sarah Liu", domain.RoleEmployee},
		{"AC90123", "pierre123", "Pierre Martin", domain.RoleEmployee},
		{"HR001", "hrplanner", "HR Planner", domain.RoleHRPlanner},
	}

	creds := make([]domain.Credential, 0, len(logins))
	for _, login := range logins {
		hash, err := bcrypt.GenerateFromPassword([]byte(login.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		creds = append(creds, domain.Credential{
			UserID:       login.userID,
			PasswordHash: hash,
			Name:         login.name,
			Role:         login.role,
		})
	}
	return creds, nil
}
