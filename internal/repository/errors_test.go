package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("wrapped: %w", pgx.ErrNoRows)), ErrNotFound)

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "reviews_ticket_id_key"}
	err := mapError(unique)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Contains(t, err.Error(), "reviews_ticket_id_key")

	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23514"}), ErrCheckViolation)
	assert.ErrorIs(t, mapError(&pgconn.PgError{Code: "23503"}), ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}
