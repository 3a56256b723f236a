package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetAttendanceReport aggregates attendances per active employee for one
// month. Employees without attendance in the month are left out. A day counts
// as late when late_minutes is positive, whatever its status.
func (r *reportRepositoryImpl) GetAttendanceReport(ctx context.Context, month, year int) ([]report.AttendanceRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id::text,
			e.full_name,
			u.email,
			b.name,
			COUNT(*) FILTER (WHERE a.status = 'present') AS present,
			COUNT(*) FILTER (WHERE a.status = 'absent') AS absent,
			COUNT(*) FILTER (WHERE COALESCE(a.late_minutes, 0) > 0) AS late,
			COUNT(a.id) AS total
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id AND e.deleted_at IS NULL
		LEFT JOIN users u ON u.id = e.user_id
		LEFT JOIN branches b ON b.id = e.branch_id
		WHERE EXTRACT(MONTH FROM a.date) = $1
			AND EXTRACT(YEAR FROM a.date) = $2
		GROUP BY e.id, e.full_name, u.email, b.name
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance report: %w", err)
	}
	defer rows.Close()

	records := []report.AttendanceRecord{}
	for rows.Next() {
		var (
			emp                          employeeColumns
			present, absent, late, total int
		)
		if err := rows.Scan(&emp.id, &emp.fullName, &emp.email, &emp.branch, &present, &absent, &late, &total); err != nil {
			return nil, fmt.Errorf("failed to scan attendance report row: %w", err)
		}
		records = append(records, report.AttendanceRecord{
			Employee: emp.ref(),
			Present:  &present,
			Absent:   &absent,
			Late:     &late,
			Total:    &total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance report: %w", err)
	}

	return records, nil
}

// GetLeaveReport counts leave requests per employee by status for requests
// starting in the month. Orphaned and cancelled requests are skipped.
func (r *reportRepositoryImpl) GetLeaveReport(ctx context.Context, month, year int) ([]report.LeaveSummaryRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			e.id::text,
			e.full_name,
			u.email,
			b.name,
			COUNT(*) FILTER (WHERE lr.status = 'approved') AS approved,
			COUNT(*) FILTER (WHERE lr.status = 'waiting_approval' OR lr.status IS NULL) AS pending,
			COUNT(*) FILTER (WHERE lr.status = 'rejected') AS rejected,
			COUNT(lr.id) AS total
		FROM leave_requests lr
		JOIN employees e ON e.id = lr.employee_id AND e.deleted_at IS NULL
		LEFT JOIN users u ON u.id = e.user_id
		LEFT JOIN branches b ON b.id = e.branch_id
		WHERE EXTRACT(MONTH FROM lr.start_date) = $1
			AND EXTRACT(YEAR FROM lr.start_date) = $2
			AND COALESCE(lr.status, '') <> 'cancelled'
		GROUP BY e.id, e.full_name, u.email, b.name
		ORDER BY e.full_name
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave report: %w", err)
	}
	defer rows.Close()

	records := []report.LeaveSummaryRecord{}
	for rows.Next() {
		var (
			emp                                employeeColumns
			approved, pending, rejected, total int
		)
		if err := rows.Scan(&emp.id, &emp.fullName, &emp.email, &emp.branch, &approved, &pending, &rejected, &total); err != nil {
			return nil, fmt.Errorf("failed to scan leave report row: %w", err)
		}
		records = append(records, report.LeaveSummaryRecord{
			Employee: emp.ref(),
			Approved: &approved,
			Pending:  &pending,
			Rejected: &rejected,
			Total:    &total,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave report: %w", err)
	}

	return records, nil
}

// GetDepartmentReport returns head counts per branch broken down by position
// name. Branches are the organisational unit of the HR schema and are what
// the console calls departments. Branches without active employees are
// included with a zero total.
func (r *reportRepositoryImpl) GetDepartmentReport(ctx context.Context) ([]report.DepartmentRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			b.name,
			p.name,
			COUNT(e.id) AS employees
		FROM branches b
		LEFT JOIN employees e ON e.branch_id = b.id AND e.deleted_at IS NULL
		LEFT JOIN positions p ON p.id = e.position_id
		GROUP BY b.name, p.name
		ORDER BY b.name, p.name
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query department report: %w", err)
	}
	defer rows.Close()

	records := []report.DepartmentRecord{}
	index := make(map[string]int)
	for rows.Next() {
		var (
			name     string
			position *string
			count    int
		)
		if err := rows.Scan(&name, &position, &count); err != nil {
			return nil, fmt.Errorf("failed to scan department report row: %w", err)
		}

		i, ok := index[name]
		if !ok {
			deptName, total := name, 0
			records = append(records, report.DepartmentRecord{
				Department:     &deptName,
				TotalEmployees: &total,
				Positions:      map[string]*int{},
			})
			i = len(records) - 1
			index[name] = i
		}

		*records[i].TotalEmployees += count
		if position != nil && count > 0 {
			n := count
			records[i].Positions[*position] = &n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate department report: %w", err)
	}

	return records, nil
}

// employeeColumns holds the nullable employee columns shared by the
// per-employee reports.
type employeeColumns struct {
	id, fullName, email, branch *string
}

func (c employeeColumns) ref() *report.EmployeeRef {
	return employeeRef(c.id, c.fullName, c.email, c.branch)
}
