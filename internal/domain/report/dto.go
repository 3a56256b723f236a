package report

import (
	"fmt"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

type ExportRequest struct {
	Kind   Kind   `json:"kind"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Format Format `json:"format"`
}

// Validate defaults the format to csv. Month and year are only checked for
// periodic kinds; department exports ignore them.
func (r *ExportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Format == "" {
		r.Format = FormatCSV
	}

	if !r.Kind.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: ErrUnknownKind.Error(),
		})
	}

	if r.Format != FormatCSV && r.Format != FormatXLSX {
		errs = append(errs, validator.ValidationError{
			Field:   "format",
			Message: ErrInvalidFormat.Error(),
		})
	}

	if r.Kind.Periodic() {
		if !validator.IsValidMonth(r.Month) {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: ErrInvalidMonth.Error(),
			})
		}
		if !validator.IsFourDigitYear(r.Year) {
			errs = append(errs, validator.ValidationError{
				Field:   "year",
				Message: ErrInvalidYear.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// FileName is derived from kind, period and format, e.g.
// attendance_report_2024_3.csv or department_report.xlsx.
func (r ExportRequest) FileName() string {
	ext := r.Format
	if ext == "" {
		ext = FormatCSV
	}
	if r.Kind.Periodic() {
		return fmt.Sprintf("%s_report_%d_%d.%s", r.Kind, r.Year, r.Month, ext)
	}
	return fmt.Sprintf("%s_report.%s", r.Kind, ext)
}

// Artifact is a finished export ready for download.
type Artifact struct {
	Kind        Kind
	FileName    string
	ContentType string
	Body        []byte
	Rows        int
}
