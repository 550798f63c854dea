package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/litreview/internal/domain"
)

// ReviewRepository encapsulates review persistence.
type ReviewRepository interface {
	// Create returns ErrDuplicate when the ticket already has a review and
	// ErrNotFound when the ticket is gone.
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id int64) error
	// GetByID loads the review with its ticket embedded.
	GetByID(ctx context.Context, id int64) (*domain.Review, error)
	ExistsForTicket(ctx context.Context, ticketID int64) (bool, error)
	CountVisible(ctx context.Context, filter VisibilityFilter) (int, error)
	ListVisible(ctx context.Context, filter VisibilityFilter, limit int) ([]domain.Review, error)
}

const reviewSelect = `SELECT r.id, r.ticket_id, r.rating, r.headline, r.body, r.owner_id, ru.username, r.created_at,
               t.id, t.owner_id, tu.username, t.title, t.description, t.image, t.created_at
        FROM reviews r
        JOIN users ru ON ru.id = r.owner_id
        JOIN tickets t ON t.id = r.ticket_id
        JOIN users tu ON tu.id = t.owner_id`

type reviewRepository struct {
	db DBTX
}

// NewReviewRepository instantiates repository.
func NewReviewRepository(db DBTX) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (ticket_id, rating, headline, body, owner_id)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		review.TicketID,
		review.Rating,
		review.Headline,
		review.Body,
		review.OwnerID,
	).Scan(&review.ID, &review.CreatedAt)
	return mapError(err)
}

func (r *reviewRepository) Update(ctx context.Context, review *domain.Review) error {
	const query = `
        UPDATE reviews SET rating=$1, headline=$2, body=$3
        WHERE id=$4`
	cmd, err := r.db.Exec(ctx, query,
		review.Rating,
		review.Headline,
		review.Body,
		review.ID,
	)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes only the review; the ticket stays and becomes open again.
func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := scanReview(r.db.QueryRow(ctx, reviewSelect+` WHERE r.id=$1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return review, nil
}

func (r *reviewRepository) ExistsForTicket(ctx context.Context, ticketID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM reviews WHERE ticket_id=$1)`, ticketID).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *reviewRepository) CountVisible(ctx context.Context, filter VisibilityFilter) (int, error) {
	where, args := filter.clause("r.owner_id", "t.owner_id")
	query := `SELECT COUNT(*) FROM reviews r JOIN tickets t ON t.id = r.ticket_id WHERE ` + where

	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, mapError(err)
	}
	return total, nil
}

func (r *reviewRepository) ListVisible(ctx context.Context, filter VisibilityFilter, limit int) ([]domain.Review, error) {
	where, args := filter.clause("r.owner_id", "t.owner_id")
	args = append(args, limit)
	query := fmt.Sprintf(`%s
        WHERE %s
        ORDER BY r.created_at DESC, r.id DESC
        LIMIT $%d`, reviewSelect, where, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *review)
	}
	return reviews, rows.Err()
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var review domain.Review
	var ticket domain.Ticket
	if err := row.Scan(
		&review.ID,
		&review.TicketID,
		&review.Rating,
		&review.Headline,
		&review.Body,
		&review.OwnerID,
		&review.OwnerName,
		&review.CreatedAt,
		&ticket.ID,
		&ticket.OwnerID,
		&ticket.OwnerName,
		&ticket.Title,
		&ticket.Description,
		&ticket.Image,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Responded = true
	review.Ticket = &ticket
	return &review, nil
}
