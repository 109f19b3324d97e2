package failure_test

import (
	"bedcall/shared/failure"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFailure_Error(t *testing.T) {
	f := &failure.Failure{Code: http.StatusBadRequest, Message: "test error message"}

	assert.Equal(t, "test error message", f.Error())
}

func TestPredefinedFailures(t *testing.T) {
	tests := []struct {
		name    string
		failure *failure.Failure
		code    int
		message string
	}{
		{name: "InvalidPageParam", failure: failure.InvalidPageParam, code: http.StatusBadRequest, message: "invalid page parameter"},
		{name: "InvalidLimitParam", failure: failure.InvalidLimitParam, code: http.StatusBadRequest, message: "invalid limit parameter"},
		{name: "InvalidAPIKey", failure: failure.InvalidAPIKey, code: http.StatusUnauthorized, message: "invalid api key"},
		{name: "InvalidCallToken", failure: failure.InvalidCallToken, code: http.StatusUnauthorized, message: "invalid call token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.failure.Code)
			assert.Equal(t, tt.message, tt.failure.Message)
		})
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{name: "bad request", err: failure.BadRequest(errors.New("validation failed")), code: http.StatusBadRequest, message: "validation failed"},
		{name: "bad request from string", err: failure.BadRequestFromString("custom bad request"), code: http.StatusBadRequest, message: "custom bad request"},
		{name: "unauthorized", err: failure.Unauthorized("token expired"), code: http.StatusUnauthorized, message: "token expired"},
		{name: "internal", err: failure.InternalError(errors.New("database connection failed")), code: http.StatusInternalServerError, message: "database connection failed"},
		{name: "not found", err: failure.NotFound("campaign not found"), code: http.StatusNotFound, message: "campaign not found"},
		{name: "conflict", err: failure.Conflict("queue is being dialed"), code: http.StatusConflict, message: "queue is being dialed"},
		{name: "unprocessable", err: failure.Unprocessable("no eligible hosts"), code: http.StatusUnprocessableEntity, message: "no eligible hosts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f *failure.Failure
			require.ErrorAs(t, tt.err, &f)
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Message)
		})
	}
}

func TestNilInputs(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
	assert.NoError(t, failure.InternalError(nil))
}

func TestGetCode(t *testing.T) {
	sentinel := failure.Unprocessable("no eligible hosts")

	tests := []struct {
		name     string
		input    error
		expected int
	}{
		{name: "failure error", input: &failure.Failure{Code: http.StatusBadRequest, Message: "test"}, expected: http.StatusBadRequest},
		{name: "wrapped failure error", input: fmt.Errorf("failed to build queue: %w", sentinel), expected: http.StatusUnprocessableEntity},
		{name: "regular error", input: errors.New("regular error"), expected: http.StatusInternalServerError},
		{name: "nil error", input: nil, expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.GetCode(tt.input))
		})
	}
}
