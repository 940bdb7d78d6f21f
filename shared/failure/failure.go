// Package failure carries client-facing errors. A *Failure maps onto an HTTP status;
// any other error reaching a handler is treated as an internal error.
package failure

import (
	"errors"
	"net/http"
)

type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	ForbiddenError          = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
	ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}
)

func (e *Failure) Error() string {
	return e.Message
}

func newFailure(code int, msg string) error {
	return &Failure{Code: code, Message: msg}
}

// BadRequest wraps a validation error. A nil error stays nil.
func BadRequest(err error) error {
	if err == nil {
		return nil
	}

	return newFailure(http.StatusBadRequest, err.Error())
}

func BadRequestFromString(msg string) error {
	return newFailure(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return newFailure(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return newFailure(http.StatusForbidden, msg)
}

func NotFound(msg string) error {
	return newFailure(http.StatusNotFound, msg)
}

// Conflict reports a request that clashes with current state, such as overlapping
// bookings or an illegal status transition.
func Conflict(msg string) error {
	return newFailure(http.StatusConflict, msg)
}

func ServiceUnavailable(msg string) error {
	return newFailure(http.StatusServiceUnavailable, msg)
}

// GetCode returns the HTTP status carried by err, or 500 when err is not a Failure.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
