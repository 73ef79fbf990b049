package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WrappedLookup(t *testing.T) {
	base := NewBadRequest("ORG006", "Minimum 3 directors")
	wrapped := fmt.Errorf("create organization: %w", base)

	appErr, ok := AsAppError(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "ORG006", appErr.Code)
	assert.Equal(t, http.StatusBadRequest, GetHTTPStatus(wrapped))
	assert.True(t, HasCode(wrapped, "ORG006"))
	assert.True(t, errors.Is(wrapped, &AppError{Code: "ORG006"}))
	assert.False(t, errors.Is(wrapped, &AppError{Code: "ORG001"}))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFound("organization", 7)))
	assert.True(t, IsNotFound(NewNotFoundCode("ORG001", "Organization not found")))
	assert.False(t, IsNotFound(NewConflict("boom")))
	assert.False(t, IsNotFound(errors.New("plain")))
}

func TestGetHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus(errors.New("db down")))
}

func TestInternalCode_KeepsCause(t *testing.T) {
	cause := errors.New("minio: connection refused")
	err := NewInternalCode("ORG010", "Error while uploading the files", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "caused by")
}
