package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	cause := errors.New("pq: connection refused")

	assert.Equal(t, KindInvalidRequest, KindOf(NewInvalidRequest("Missing required fields")))
	assert.Equal(t, KindNotFound, KindOf(NewNotFound("Slot not found")))
	assert.Equal(t, KindConflict, KindOf(fmt.Errorf("wrapped: %w", NewConflict("Slot is already booked"))))
	assert.Equal(t, KindInternal, KindOf(NewInternal("Error creating booking", cause)))
	assert.Equal(t, KindInternal, KindOf(cause))
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := NewInternal("Error creating booking", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "Error creating booking")
	assert.Nil(t, errors.Unwrap(NewConflict("Slot is already booked")))
}
