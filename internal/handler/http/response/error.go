package response

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

var exportStatus = map[report.Cause]int{
	report.CauseAuthExpired:        http.StatusUnauthorized,
	report.CauseForbidden:          http.StatusForbidden,
	report.CauseEndpointMissing:    http.StatusNotFound,
	report.CauseServerError:        http.StatusBadGateway,
	report.CauseBackendUnreachable: http.StatusServiceUnavailable,
	report.CauseUnknown:            http.StatusBadGateway,
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Report errors
	var noData *report.NoDataError
	if errors.As(err, &noData) {
		Error(w, http.StatusNotFound, "NO_DATA", noData.Error())
		return
	}
	var exportErr *report.ExportError
	if errors.As(err, &exportErr) {
		status, ok := exportStatus[exportErr.Cause]
		if !ok {
			status = http.StatusBadGateway
		}
		code := strings.ToUpper(strings.ReplaceAll(string(exportErr.Cause), "-", "_"))
		Error(w, status, code, exportErr.Message)
		return
	}

	// Leave domain errors
	var mutationErr *leave.MutationError
	message := ""
	if errors.As(err, &mutationErr) {
		message = mutationErr.Message
	}

	switch {
	case errors.Is(err, leave.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, orDefault(message, "Leave request not found"))
	case errors.Is(err, leave.ErrLeaveAlreadyProcessed):
		Conflict(w, orDefault(message, "Leave request already processed"))
	case mutationErr != nil:
		Error(w, http.StatusBadGateway, "MUTATION_FAILED", message)
	case errors.Is(err, report.ErrUnknownKind):
		BadRequest(w, "Unknown report kind", nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
