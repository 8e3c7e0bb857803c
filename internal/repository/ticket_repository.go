package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/hr-intake/internal/domain"
)

// TicketRepository is the durability layer for tickets. The lifecycle
// manager owns all state-machine logic; implementations only store.
type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, limit, offset int) ([]domain.Ticket, error)
	// UpdateStatus transitions a PENDING ticket to the given terminal
	// status. Returns false (no error) when the ticket is missing or no
	// longer PENDING.
	UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (bool, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the postgres-backed repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	transcript, err := json.Marshal(ticket.Transcript)
	if err != nil {
		return err
	}
	entities, err := json.Marshal(ticket.Entities)
	if err != nil {
		return err
	}
	ruleChecks, err := json.Marshal(ticket.RuleChecks)
	if err != nil {
		return err
	}
	systemStatus, err := json.Marshal(ticket.SystemStatus)
	if err != nil {
		return err
	}

	const query = `
        INSERT INTO tickets (id, employee_name, employee_id, type, status, created_at, transcript,
                             summary, entities, compliance, audit_log, reason_badge, rule_checks, system_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`
	_, err = r.pool.Exec(ctx, query,
		ticket.ID,
		ticket.EmployeeName,
		ticket.EmployeeID,
		ticket.Type,
		ticket.Status,
		ticket.CreatedAt,
		transcript,
		ticket.Summary,
		entities,
		ticket.Compliance,
		ticket.AuditLog,
		ticket.ReasonBadge,
		ruleChecks,
		systemStatus,
	)
	return err
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, employee_name, employee_id, type, status, created_at, transcript,
               summary, entities, compliance, audit_log, reason_badge, rule_checks, system_status
        FROM tickets WHERE id=$1`
	row := r.pool.QueryRow(ctx, query, id)
	ticket, err := scanTicket(row)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, limit, offset int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
        SELECT id, employee_name, employee_id, type, status, created_at, transcript,
               summary, entities, compliance, audit_log, reason_badge, rule_checks, system_status
        FROM tickets ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id string, status domain.TicketStatus) (bool, error) {
	const query = `UPDATE tickets SET status=$1 WHERE id=$2 AND status='PENDING'`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket       domain.Ticket
		transcript   []byte
		entities     []byte
		ruleChecks   []byte
		systemStatus []byte
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.EmployeeName,
		&ticket.EmployeeID,
		&ticket.Type,
		&ticket.Status,
		&ticket.CreatedAt,
		&transcript,
		&ticket.Summary,
		&entities,
		&ticket.Compliance,
		&ticket.AuditLog,
		&ticket.ReasonBadge,
		&ruleChecks,
		&systemStatus,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(transcript, &ticket.Transcript); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(entities, &ticket.Entities); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(ruleChecks, &ticket.RuleChecks); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(systemStatus, &ticket.SystemStatus); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// ErrNoRows re-exports the pgx sentinel so callers outside this package
// can match missing tickets without importing pgx.
var ErrNoRows = pgx.ErrNoRows
