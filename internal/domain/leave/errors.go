package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveNotFound          = errors.New("leave record not found")
	ErrLeaveAlreadyProcessed  = errors.New("leave record already processed")
	ErrInvalidTransition      = errors.New("leave status can only be changed to approved or rejected")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)

// MutationError is returned when the data service rejects a status update or cleanup.
// Op is "update_status" or "cleanup".
type MutationError struct {
	Op      string
	ID      string
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, e.ID, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *MutationError) Unwrap() error {
	return e.Err
}
