package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"hostly/shared/failure"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"bad request", failure.BadRequest(errors.New("check_out must be after check_in")), http.StatusBadRequest, "check_out must be after check_in"},
		{"bad request from string", failure.BadRequestFromString("invalid month"), http.StatusBadRequest, "invalid month"},
		{"unauthorized", failure.Unauthorized("invalid token"), http.StatusUnauthorized, "invalid token"},
		{"forbidden", failure.Forbidden("account is deactivated"), http.StatusForbidden, "account is deactivated"},
		{"not found", failure.NotFound("booking not found"), http.StatusNotFound, "booking not found"},
		{"conflict", failure.Conflict("room is already booked"), http.StatusConflict, "room is already booked"},
		{"service unavailable", failure.ServiceUnavailable("storage down"), http.StatusServiceUnavailable, "storage down"},
		{"predefined forbidden", failure.ForbiddenError, http.StatusForbidden, "You don't have the required permissions"},
		{"predefined restricted", failure.ResourceRestrictedError, http.StatusForbidden, "You don't have permission to access this resource"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, failure.GetCode(tt.err))
			assert.EqualError(t, tt.err, tt.msg)
		})
	}
}

func TestBadRequestNil(t *testing.T) {
	assert.NoError(t, failure.BadRequest(nil))
}

func TestGetCode(t *testing.T) {
	wrapped := fmt.Errorf("cancel booking: %w", failure.Conflict("booking already cancelled"))

	assert.Equal(t, http.StatusConflict, failure.GetCode(wrapped))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(errors.New("pq: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(nil))
}
