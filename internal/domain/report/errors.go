package report

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind   = errors.New("report kind must be one of attendance, leave, department")
	ErrInvalidFormat = errors.New("report format must be csv or xlsx")
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
	ErrInvalidYear   = errors.New("year must be a four-digit year")
)

// NoDataError means the service returned an empty collection. No artifact is
// produced.
type NoDataError struct {
	Kind  Kind
	Month int
	Year  int
}

func (e *NoDataError) Error() string {
	if e.Kind.Periodic() {
		return fmt.Sprintf("no %s data found for %d/%d", e.Kind, e.Month, e.Year)
	}
	return fmt.Sprintf("no %s data found", e.Kind)
}

// Cause classifies why fetching report data failed.
type Cause string

const (
	CauseAuthExpired        Cause = "auth-expired"
	CauseForbidden          Cause = "forbidden"
	CauseEndpointMissing    Cause = "endpoint-missing"
	CauseServerError        Cause = "server-error"
	CauseBackendUnreachable Cause = "backend-unreachable"
	CauseUnknown            Cause = "unknown"
)

var causeMessages = map[Cause]string{
	CauseAuthExpired:        "Your session has expired. Please log in again.",
	CauseForbidden:          "You do not have permission to export this report.",
	CauseEndpointMissing:    "The report endpoint was not found on the server.",
	CauseServerError:        "The server failed to generate the report. Please try again later.",
	CauseBackendUnreachable: "Cannot reach the report server. Check that the backend is running.",
	CauseUnknown:            "Failed to generate report.",
}

// DefaultMessage is the user-facing message for cause.
func (c Cause) DefaultMessage() string {
	if msg, ok := causeMessages[c]; ok {
		return msg
	}
	return causeMessages[CauseUnknown]
}

// ExportError wraps a transport or service failure during export.
type ExportError struct {
	Kind    Kind
	Cause   Cause
	Message string
	Err     error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export %s report (%s): %s", e.Kind, e.Cause, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
