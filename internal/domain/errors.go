package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	// ErrorCodeTransport marks requests that never produced a structured
	// response: network errors and bodies that are not JSON.
	ErrorCodeTransport ErrorCode = "TRANSPORT_FAILURE"
	// ErrorCodeApplication marks structured error responses from the backend.
	ErrorCodeApplication ErrorCode = "APPLICATION_FAILURE"
	ErrorCodeNotFound    ErrorCode = "NOT_FOUND"
)

type DomainError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error { return e.Err }

func TransportFailure(op string, err error) error {
	return &DomainError{
		Code:    ErrorCodeTransport,
		Message: op,
		Err:     err,
	}
}

// ApplicationFailure carries the backend's human-readable detail, which may be empty.
func ApplicationFailure(status int, detail string) error {
	return &DomainError{
		Code:       ErrorCodeApplication,
		Message:    detail,
		HTTPStatus: status,
	}
}

func IsTransport(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == ErrorCodeTransport
}

// ApplicationDetail returns the backend detail when err is an application failure.
func ApplicationDetail(err error) (string, bool) {
	var de *DomainError
	if errors.As(err, &de) && de.Code == ErrorCodeApplication {
		return de.Message, true
	}
	return "", false
}
