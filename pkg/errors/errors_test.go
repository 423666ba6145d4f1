package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, StatusInternalServerError},
		{"invalid request", NewInvalidRequestError("bad", nil), StatusBadRequest},
		{"database", NewDatabaseError("down", errors.New("dial tcp")), StatusInternalServerError},
		{"unavailable", NewAppError(ErrorTypeUnavailable, "later", nil), StatusServiceUnavailable},
		{"wrapped app error", fmt.Errorf("outer: %w", NewInvalidRequestError("bad", nil)), StatusBadRequest},
		{"deadline inside database error", NewDatabaseError("slow", context.DeadlineExceeded), StatusRequestTimeout},
		{"plain error", errors.New("boom"), StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HTTPStatusCode(tc.err))
		})
	}
}

func TestGetHumanReadableMessage_HidesInternalErrors(t *testing.T) {
	assert.Equal(t, "unable to save registration", GetHumanReadableMessage(NewDatabaseError("unable to save registration", errors.New("pq: relation \"register\" does not exist"))))
	assert.Equal(t, "An unexpected error occurred", GetHumanReadableMessage(errors.New("pq: password authentication failed")))
	assert.Equal(t, "An unexpected error occurred", GetHumanReadableMessage(nil))
}

func TestAppError_UnwrapAndType(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("unable to save registration", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeDatabaseError, GetErrorType(err))
	assert.Equal(t, ErrorTypeUnknown, GetErrorType(cause))
	assert.Contains(t, err.Error(), "DATABASE_ERROR")
}

type samplePayload struct {
	FirstName string `json:"firstName" validate:"required"`
	BloodType string `json:"bloodType" validate:"max=3"`
}

func TestFormatValidationErrors(t *testing.T) {
	t.Run("json type mismatch", func(t *testing.T) {
		var payload samplePayload
		err := json.Unmarshal([]byte(`{"firstName": 7}`), &payload)
		require.Error(t, err)

		got := FormatValidationErrors(err, &payload)
		require.Len(t, got, 1)
		assert.Equal(t, "firstName", got[0].Field)
		assert.Contains(t, got[0].Message, "Invalid type for field firstName")
	})

	t.Run("validator errors use json names", func(t *testing.T) {
		payload := samplePayload{BloodType: "ABCD"}
		err := validator.New().Struct(payload)
		require.Error(t, err)

		got := FormatValidationErrors(err, &payload)
		require.Len(t, got, 2)
		assert.Equal(t, ValidationErrorResponse{Field: "firstName", Message: "This field is required"}, got[0])
		assert.Equal(t, ValidationErrorResponse{Field: "bloodType", Message: "Must not exceed 3 characters"}, got[1])
	})

	t.Run("syntax errors carry no fields", func(t *testing.T) {
		var payload samplePayload
		err := json.Unmarshal([]byte(`{"firstName":`), &payload)
		require.Error(t, err)
		assert.Empty(t, FormatValidationErrors(err, &payload))
	})
}
