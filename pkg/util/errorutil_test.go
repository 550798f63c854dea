package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", NewValidationError("bad", nil), CodeValidation, http.StatusBadRequest},
		{"permission", NewPermissionDenied("ticket"), CodePermissionDenied, http.StatusForbidden},
		{"already responded", NewAlreadyResponded(7), CodeAlreadyResponded, http.StatusForbidden},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("review", nil)), CodeNotFound, http.StatusNotFound},
		{"plain error", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := ToDomainError(tt.err)
			require.NotNil(t, de)
			assert.Equal(t, tt.wantCode, de.Code)
			assert.Equal(t, tt.wantStatus, de.HTTPStatus)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("create follow: %w", NewSelfFollow())
	assert.True(t, HasCode(err, CodeSelfFollow))
	assert.False(t, HasCode(err, CodeDuplicateFollow))
	assert.False(t, HasCode(errors.New("x"), CodeSelfFollow))
}

func TestInternalErrorUnwraps(t *testing.T) {
	cause := errors.New("db down")
	err := NewInternalError(cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "db down")
}
