package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError_PassesThroughWrapped(t *testing.T) {
	base := NewNotFound("order not found")
	wrapped := fmt.Errorf("get order: %w", base)

	de := ToDomainError(wrapped)
	require.NotNil(t, de)
	assert.Equal(t, CodeNotFound, de.Code)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	de := ToDomainError(errors.New("connection reset by peer"))
	assert.Equal(t, CodeInternal, de.Code)
	assert.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
	assert.Equal(t, "internal server error", de.Message)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}

func TestPersistenceError_KeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewPersistenceError("failed to create order", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, IsCode(err, CodePersistence))
	assert.Equal(t, http.StatusBadRequest, ToDomainError(err).HTTPStatus)
}

func TestWithStatus_DoesNotMutateOriginal(t *testing.T) {
	orig := NewNotFound("The user not found")
	moved := WithStatus(orig, http.StatusBadRequest)

	assert.Equal(t, http.StatusNotFound, ToDomainError(orig).HTTPStatus)
	assert.Equal(t, http.StatusBadRequest, ToDomainError(moved).HTTPStatus)
	assert.True(t, IsCode(moved, CodeNotFound))
}
