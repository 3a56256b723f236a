package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/cmlabs-hris/hris-admin-console/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// Export handles GET /reports/{kind}/export
	Export(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	exporter report.ReportExporter
}

func NewReportHandler(exporter report.ReportExporter) ReportHandler {
	return &reportHandlerImpl{
		exporter: exporter,
	}
}

func (h *reportHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	req, err := parseExportRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	artifact, err := h.exporter.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Report exported", "kind", artifact.Kind, "file", artifact.FileName, "rows", artifact.Rows)
	response.Attachment(w, artifact.FileName, artifact.ContentType, artifact.Body)
}

// parseExportRequest reads kind from the path and month, year and format from
// the query. Month and year are read for periodic kinds only; absent numbers
// stay zero and are left to ExportRequest.Validate.
func parseExportRequest(r *http.Request) (report.ExportRequest, error) {
	query := r.URL.Query()
	req := report.ExportRequest{
		Kind:   report.Kind(chi.URLParam(r, "kind")),
		Format: report.Format(query.Get("format")),
	}
	if !req.Kind.Periodic() {
		return req, nil
	}

	var errs validator.ValidationErrors
	month, _, err := validator.Atoi(query.Get("month"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be a number"})
	}
	year, _, err := validator.Atoi(query.Get("year"))
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be a number"})
	}
	if len(errs) > 0 {
		return req, errs
	}

	req.Month, req.Year = month, year
	return req, nil
}
