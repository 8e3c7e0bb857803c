package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// MemoryTicketRepository keeps tickets in memory. Used when no Postgres
// DSN is configured and in tests.
type MemoryTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

// NewMemoryTicketRepository builds an empty in-memory store.
func NewMemoryTicketRepository() *MemoryTicketRepository {
	return &MemoryTicketRepository{tickets: make(map[string]domain.Ticket)}
}

func (r *MemoryTicketRepository) Save(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tickets[ticket.ID] = *ticket
	return nil
}

func (r *MemoryTicketRepository) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, ErrNoRows
	}
	return &ticket, nil
}

func (r *MemoryTicketRepository) List(_ context.Context, limit, offset int) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		all = append(all, ticket)
	}
	// Newest first for display; ordering is not semantically load-bearing.
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if offset >= len(all) {
		return []domain.Ticket{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryTicketRepository) UpdateStatus(_ context.Context, id string, status domain.TicketStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok || ticket.Status != domain.TicketStatusPending {
		return false, nil
	}
	ticket.Status = status
	r.tickets[id] = ticket
	return true, nil
}
