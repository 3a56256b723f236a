package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"syscall"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"golang.org/x/sync/errgroup"
)

var _ report.ReportExporter = (*ExporterImpl)(nil)

type ExporterImpl struct {
	report.ReportRepository
}

func NewExporter(repo report.ReportRepository) *ExporterImpl {
	return &ExporterImpl{ReportRepository: repo}
}

// Generate implements report.ReportExporter.
func (s *ExporterImpl) Generate(ctx context.Context, req report.ExportRequest) (report.Artifact, error) {
	if err := req.Validate(); err != nil {
		return report.Artifact{}, err
	}
	if !req.Kind.Periodic() {
		req.Month, req.Year = 0, 0
	}

	dataset, err := s.fetch(ctx, req)
	if err != nil {
		exportErr := classify(req.Kind, err)
		slog.Error("Fetch report data failed", "kind", req.Kind, "month", req.Month, "year", req.Year, "cause", exportErr.Cause, "error", err)
		return report.Artifact{}, exportErr
	}

	if dataset.Len() == 0 {
		slog.Info("Report has no data", "kind", req.Kind, "month", req.Month, "year", req.Year)
		return report.Artifact{}, &report.NoDataError{Kind: req.Kind, Month: req.Month, Year: req.Year}
	}

	table, err := dataset.Table()
	if err != nil {
		return report.Artifact{}, err
	}

	var body []byte
	switch req.Format {
	case report.FormatXLSX:
		body, err = encodeXLSX(req.Kind, table)
	default:
		body = encodeCSV(table)
	}
	if err != nil {
		return report.Artifact{}, fmt.Errorf("failed to encode %s report: %w", req.Kind, err)
	}

	artifact := report.Artifact{
		Kind:        req.Kind,
		FileName:    req.FileName(),
		ContentType: req.Format.ContentType(),
		Body:        body,
		Rows:        len(table.Rows),
	}
	slog.Info("Report generated", "kind", req.Kind, "file_name", artifact.FileName, "rows", artifact.Rows)
	return artifact, nil
}

// GenerateAll implements report.ReportExporter.
func (s *ExporterImpl) GenerateAll(ctx context.Context, month, year int, format report.Format) ([]report.Artifact, error) {
	artifacts := make([]report.Artifact, len(report.Kinds))

	g, gCtx := errgroup.WithContext(ctx)
	for i, kind := range report.Kinds {
		i, kind := i, kind
		g.Go(func() error {
			artifact, err := s.Generate(gCtx, report.ExportRequest{
				Kind:   kind,
				Month:  month,
				Year:   year,
				Format: format,
			})
			if err != nil {
				return err
			}
			artifacts[i] = artifact
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return artifacts, nil
}

func (s *ExporterImpl) fetch(ctx context.Context, req report.ExportRequest) (report.Dataset, error) {
	dataset := report.Dataset{Kind: req.Kind}
	var err error

	switch req.Kind {
	case report.KindAttendance:
		dataset.Attendance, err = s.ReportRepository.GetAttendanceReport(ctx, req.Month, req.Year)
	case report.KindLeave:
		dataset.Leave, err = s.ReportRepository.GetLeaveReport(ctx, req.Month, req.Year)
	case report.KindDepartment:
		dataset.Departments, err = s.ReportRepository.GetDepartmentReport(ctx)
	default:
		return dataset, report.ErrUnknownKind
	}
	return dataset, err
}

// classify maps a fetch failure onto the fixed cause taxonomy. Status codes
// are read from any error in the chain exposing HTTPStatus.
func classify(kind report.Kind, err error) *report.ExportError {
	cause := report.CauseUnknown

	var withStatus interface{ HTTPStatus() int }
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		cause = report.CauseBackendUnreachable
	case errors.As(err, &withStatus):
		switch withStatus.HTTPStatus() {
		case http.StatusUnauthorized:
			cause = report.CauseAuthExpired
		case http.StatusForbidden:
			cause = report.CauseForbidden
		case http.StatusNotFound:
			cause = report.CauseEndpointMissing
		case http.StatusInternalServerError:
			cause = report.CauseServerError
		}
	}

	message := cause.DefaultMessage()
	if cause == report.CauseUnknown {
		var withMessage interface{ ServiceMessage() string }
		if errors.As(err, &withMessage) && withMessage.ServiceMessage() != "" {
			message = withMessage.ServiceMessage()
		}
	}

	return &report.ExportError{Kind: kind, Cause: cause, Message: message, Err: err}
}
