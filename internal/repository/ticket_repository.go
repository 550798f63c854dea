package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/litreview/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	CountVisible(ctx context.Context, filter VisibilityFilter) (int, error)
	// ListVisible returns at most limit tickets, newest first.
	ListVisible(ctx context.Context, filter VisibilityFilter, limit int) ([]domain.Ticket, error)
}

const ticketColumns = `t.id, t.owner_id, u.username, t.title, t.description, t.image, t.created_at,
               EXISTS (SELECT 1 FROM reviews rv WHERE rv.ticket_id = t.id)`

type ticketRepository struct {
	db DBTX
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DBTX) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (owner_id, title, description, image)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		ticket.OwnerID,
		ticket.Title,
		ticket.Description,
		ticket.Image,
	).Scan(&ticket.ID, &ticket.CreatedAt)
	return mapError(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, image=$3
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Image,
		ticket.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the ticket; its review goes with it.
func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + `
        FROM tickets t JOIN users u ON u.id = t.owner_id
        WHERE t.id=$1`
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return ticket, nil
}

func (r *ticketRepository) CountVisible(ctx context.Context, filter VisibilityFilter) (int, error) {
	where, args := filter.clause("t.owner_id", "")
	query := `SELECT COUNT(*) FROM tickets t WHERE ` + where

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func (r *ticketRepository) ListVisible(ctx context.Context, filter VisibilityFilter, limit int) ([]domain.Ticket, error) {
	where, args := filter.clause("t.owner_id", "")
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT %s
        FROM tickets t JOIN users u ON u.id = t.owner_id
        WHERE %s
        ORDER BY t.created_at DESC, t.id DESC
        LIMIT $%d`, ticketColumns, where, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.OwnerName,
		&ticket.Title,
		&ticket.Description,
		&ticket.Image,
		&ticket.CreatedAt,
		&ticket.Responded,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
