package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("last_name cannot be empty")

	assert.ErrorIs(t, err, ErrValidationFailed)
	assert.Equal(t, "last_name cannot be empty", err.Error())
}

func TestCustomErrorUnwrapSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("error creating student: %w", NewValidationError("faculty cannot be empty"))

	assert.ErrorIs(t, err, ErrValidationFailed)

	var custom *CustomError
	assert.True(t, errors.As(err, &custom))
	assert.Equal(t, "faculty cannot be empty", custom.Message)
}

func TestCustomErrorFallbackMessages(t *testing.T) {
	assert.Equal(t, ErrNoData.Error(), (&CustomError{Err: ErrNoData}).Error())
	assert.Equal(t, "unknown error", (&CustomError{}).Error())
}
