package repository

import (
	"context"

	"github.com/spec-kit/litreview/internal/domain"
)

// FollowRepository encapsulates the follow graph.
type FollowRepository interface {
	// Create returns ErrDuplicate for an existing pair and ErrCheckViolation for a self-follow.
	Create(ctx context.Context, follow *domain.Follow) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Follow, error)
	Exists(ctx context.Context, followerID, followedID int64) (bool, error)
	// ListFollowing returns who userID follows, ordered by username.
	ListFollowing(ctx context.Context, userID int64) ([]domain.Follow, error)
	// ListFollowers returns who follows userID, ordered by username.
	ListFollowers(ctx context.Context, userID int64) ([]domain.Follow, error)
}

const followSelect = `SELECT f.id, f.follower_id, fu.username, f.followed_id, du.username, f.created_at
        FROM follows f
        JOIN users fu ON fu.id = f.follower_id
        JOIN users du ON du.id = f.followed_id`

type followRepository struct {
	db DBTX
}

// NewFollowRepository instantiates repository.
func NewFollowRepository(db DBTX) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *domain.Follow) error {
	const query = `
        INSERT INTO follows (follower_id, followed_id)
        VALUES ($1,$2)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query, follow.FollowerID, follow.FollowedID).Scan(&follow.ID, &follow.CreatedAt)
	return mapError(err)
}

func (r *followRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM follows WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, id int64) (*domain.Follow, error) {
	var follow domain.Follow
	if err := r.db.QueryRow(ctx, followSelect+` WHERE f.id=$1`, id).Scan(
		&follow.ID,
		&follow.FollowerID,
		&follow.FollowerName,
		&follow.FollowedID,
		&follow.FollowedName,
		&follow.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &follow, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id=$1 AND followed_id=$2)`,
		followerID, followedID,
	).Scan(&exists)
	if err != nil {
		return false, mapError(err)
	}
	return exists, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID int64) ([]domain.Follow, error) {
	return r.list(ctx, followSelect+` WHERE f.follower_id=$1 ORDER BY du.username`, userID)
}

func (r *followRepository) ListFollowers(ctx context.Context, userID int64) ([]domain.Follow, error) {
	return r.list(ctx, followSelect+` WHERE f.followed_id=$1 ORDER BY fu.username`, userID)
}

func (r *followRepository) list(ctx context.Context, query string, userID int64) ([]domain.Follow, error) {
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var follows []domain.Follow
	for rows.Next() {
		var follow domain.Follow
		if err := rows.Scan(
			&follow.ID,
			&follow.FollowerID,
			&follow.FollowerName,
			&follow.FollowedID,
			&follow.FollowedName,
			&follow.CreatedAt,
		); err != nil {
			return nil, err
		}
		follows = append(follows, follow)
	}
	return follows, rows.Err()
}
