package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// ErrNotFound is returned when no employee record matches the id.
var ErrNotFound = errors.New("employee not found")

// Directory is the read-only employee lookup the engine depends on.
// Implementations must tolerate concurrent reads.
type Directory interface {
	Lookup(ctx context.Context, employeeID string) (*domain.Employee, error)
	List(ctx context.Context) ([]domain.Employee, error)
}

// memoryDirectory serves a fixed employee roster from memory.
type memoryDirectory struct {
	byID  map[string]domain.Employee
	order []string
}

// NewMemoryDirectory builds an in-memory directory over the given
// roster. The roster is copied; callers cannot mutate it afterwards.
func NewMemoryDirectory(employees []domain.Employee) Directory {
	d := &memoryDirectory{byID: make(map[string]domain.Employee, len(employees))}
	for _, emp := range employees {
		id := strings.ToUpper(emp.ID)
		if _, exists := d.byID[id]; exists {
			continue
		}
		d.byID[id] = emp
		d.order = append(d.order, id)
	}
	return d
}

func (d *memoryDirectory) Lookup(_ context.Context, employeeID string) (*domain.Employee, error) {
	emp, ok := d.byID[strings.ToUpper(employeeID)]
	if !ok {
		return nil, ErrNotFound
	}
	return &emp, nil
}

func (d *memoryDirectory) List(_ context.Context) ([]domain.Employee, error) {
	out := make([]domain.Employee, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.byID[id])
	}
	return out, nil
}
