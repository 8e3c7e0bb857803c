package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-intake/internal/directory"
	"github.com/spec-kit/hr-intake/internal/domain"
)

// employeeRepository serves the employee directory from Postgres. It
// satisfies directory.Directory; the engine only ever reads.
type employeeRepository struct {
	pool *pgxpool.Pool
}

// NewEmployeeRepository instantiates the postgres-backed directory.
func NewEmployeeRepository(pool *pgxpool.Pool) directory.Directory {
	return &employeeRepository{pool: pool}
}

const employeeColumns = `
    id, name, station, workgroup, bilingual, skills, shifts, contact,
    sick_days_remaining, ot_hours_this_week`

func (r *employeeRepository) Lookup(ctx context.Context, employeeID string) (*domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees WHERE id=$1`
	emp, err := r.scanEmployee(ctx, r.pool.QueryRow(ctx, query, strings.ToUpper(employeeID)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, directory.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadTrainings(ctx, emp); err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *employeeRepository) List(ctx context.Context) ([]domain.Employee, error) {
	const query = `SELECT ` + employeeColumns + ` FROM employees ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]domain.Employee, 0)
	for rows.Next() {
		emp, err := r.scanEmployee(ctx, rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *emp)
	}
	return employees, rows.Err()
}

func (r *employeeRepository) scanEmployee(_ context.Context, row rowScanner) (*domain.Employee, error) {
	var emp domain.Employee
	if err := row.Scan(
		&emp.ID,
		&emp.Name,
		&emp.Station,
		&emp.Workgroup,
		&emp.Bilingual,
		&emp.Skills,
		&emp.Shifts,
		&emp.Contact,
		&emp.SickDaysRemaining,
		&emp.OTHoursThisWeek,
	); err != nil {
		return nil, err
	}
	return &emp, nil
}

func (r *employeeRepository) loadTrainings(ctx context.Context, emp *domain.Employee) error {
	const query = `SELECT course, date, time FROM employee_trainings WHERE employee_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, emp.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var training domain.TrainingRecord
		if err := rows.Scan(&training.Course, &training.Date, &training.Time); err != nil {
			return err
		}
		emp.Trainings = append(emp.Trainings, training)
	}
	return rows.Err()
}
