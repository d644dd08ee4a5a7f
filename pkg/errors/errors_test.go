package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	withCause := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: fmt.Errorf("db connection lost")}
	assert.Equal(t, "INTERNAL_ERROR: something broke: db connection lost", withCause.Error())

	plain := &AppError{Code: "NOT_FOUND", Message: "stall not found"}
	assert.Equal(t, "NOT_FOUND: stall not found", plain.Error())
}

func TestNotFound_FormatsNumericID(t *testing.T) {
	err := NotFound("stall", int64(42))
	require.NotNil(t, err)
	assert.Equal(t, "stall with id 42 not found", err.Message)
	assert.Equal(t, http.StatusNotFound, err.Status)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNotFoundBy_QuotesValue(t *testing.T) {
	err := NotFoundBy("stall", "owner_name", "Hana")
	assert.Equal(t, `stall with owner_name "Hana" not found`, err.Message)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConstructors_StatusAndSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		code     string
		status   int
		sentinel error
	}{
		{"already exists", AlreadyExists("user", "username", "alice"), "ALREADY_EXISTS", http.StatusConflict, ErrAlreadyExists},
		{"conflict", Conflict("stall does not exist"), "CONFLICT", http.StatusConflict, ErrConflict},
		{"invalid input", InvalidInput("rating must be between 1 and 5"), "INVALID_INPUT", http.StatusBadRequest, ErrInvalidInput},
		{"unauthorized", Unauthorized("invalid token"), "UNAUTHORIZED", http.StatusUnauthorized, ErrUnauthorized},
		{"forbidden", Forbidden("not your review"), "FORBIDDEN", http.StatusForbidden, ErrForbidden},
		{"unavailable", Unavailable(fmt.Errorf("dial tcp: connection refused")), "SERVICE_UNAVAILABLE", http.StatusServiceUnavailable, ErrServiceUnavail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.Status)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestUnavailable_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := Unavailable(cause)
	assert.ErrorIs(t, err, cause)
	assert.NotContains(t, err.Message, "connection reset")
}

func TestHTTPStatus_WrappedSentinels(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatus(Wrap(ErrNotFound, "get stall")))
	assert.Equal(t, http.StatusConflict, HTTPStatus(Wrap(ErrConflict, "create item")))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(Wrap(ErrServiceUnavail, "list")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
