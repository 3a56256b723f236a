package dataservice

import (
	"errors"
	"fmt"
)

// ErrUnreachable wraps connection-refused failures.
var ErrUnreachable = errors.New("data service unreachable")

// StatusError is a non-2xx response, or a 2xx response with success=false.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("data service responded %d", e.Code)
	}
	return fmt.Sprintf("data service responded %d: %s", e.Code, e.Message)
}

func (e *StatusError) HTTPStatus() int {
	return e.Code
}

// ServiceMessage is the message from the response payload, if any.
func (e *StatusError) ServiceMessage() string {
	return e.Message
}
