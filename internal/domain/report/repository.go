package report

import "context"

// ReportRepository fetches aggregate report records from the data source.
type ReportRepository interface {
	GetAttendanceReport(ctx context.Context, month, year int) ([]AttendanceRecord, error)
	GetLeaveReport(ctx context.Context, month, year int) ([]LeaveSummaryRecord, error)
	// GetDepartmentReport is a point-in-time snapshot with no period.
	GetDepartmentReport(ctx context.Context) ([]DepartmentRecord, error)
}
