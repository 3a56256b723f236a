package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// leave_requests stores "waiting_approval" where the console says pending.
const dbStatusWaitingApproval = "waiting_approval"

type leaveRepositoryImpl struct {
	db *database.DB
}

// NewLeaveRepository reads leave requests straight from the HR database.
// Requests whose employee is missing or soft-deleted come back with a nil
// Employee, exactly as the data service reports orphans. Cancelled requests
// are not part of the console and are never listed.
func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepositoryImpl{db: db}
}

func (r *leaveRepositoryImpl) ListLeaves(ctx context.Context, status *leave.Status) ([]leave.LeaveRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			lr.id::text,
			COALESCE(lt.name, ''),
			lr.start_date,
			lr.end_date,
			COALESCE(lr.reason, ''),
			COALESCE(lr.status, ''),
			e.id::text,
			e.full_name,
			u.email,
			b.name
		FROM leave_requests lr
		LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
		LEFT JOIN employees e ON e.id = lr.employee_id AND e.deleted_at IS NULL
		LEFT JOIN users u ON u.id = e.user_id
		LEFT JOIN branches b ON b.id = e.branch_id
		WHERE COALESCE(lr.status, '') <> 'cancelled'
	`
	args := []interface{}{}
	if status != nil {
		query += ` AND lr.status = $1`
		args = append(args, toDBStatus(*status))
	}
	query += ` ORDER BY lr.submitted_at DESC, lr.id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	records := []leave.LeaveRecord{}
	for rows.Next() {
		var (
			rec                    leave.LeaveRecord
			rawStatus              string
			startDate, endDate     *time.Time
			empID, fullName, email *string
			branchName             *string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.LeaveType,
			&startDate,
			&endDate,
			&rec.Reason,
			&rawStatus,
			&empID,
			&fullName,
			&email,
			&branchName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}

		rec.Status = fromDBStatus(rawStatus)
		if startDate != nil {
			rec.StartDate = leave.Date{Time: *startDate}
		}
		if endDate != nil {
			rec.EndDate = leave.Date{Time: *endDate}
		}
		rec.Employee = employeeRef(empID, fullName, email, branchName)
		rec.Normalize()
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}

	return records, nil
}

// UpdateStatus only moves requests waiting for approval. With no service in
// front of the database this adapter is the authority on legal transitions.
func (r *leaveRepositoryImpl) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	return WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		var current string
		err := tx.QueryRow(ctx, `
			SELECT COALESCE(status, $2)
			FROM leave_requests
			WHERE id::text = $1
			FOR UPDATE
		`, id, dbStatusWaitingApproval).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.ErrLeaveNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock leave request: %w", err)
		}

		currentStatus := fromDBStatus(current)
		if currentStatus == status {
			return nil
		}
		if current != dbStatusWaitingApproval {
			return fmt.Errorf("leave %s is %s: %w", id, currentStatus, leave.ErrLeaveAlreadyProcessed)
		}

		query := `
			UPDATE leave_requests
			SET status = $2, updated_at = NOW()
			WHERE id::text = $1
		`
		if status == leave.StatusApproved {
			query = `
				UPDATE leave_requests
				SET status = $2, approved_at = NOW(), updated_at = NOW()
				WHERE id::text = $1
			`
		}
		if _, err := tx.Exec(ctx, query, id, toDBStatus(status)); err != nil {
			return fmt.Errorf("failed to update leave request status: %w", err)
		}
		return nil
	})
}

func (r *leaveRepositoryImpl) CleanupOrphans(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `
		DELETE FROM leave_requests lr
		WHERE lr.employee_id IS NULL
			OR NOT EXISTS (
				SELECT 1 FROM employees e
				WHERE e.id = lr.employee_id AND e.deleted_at IS NULL
			)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete orphaned leave requests: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func toDBStatus(s leave.Status) string {
	if s == leave.StatusPending {
		return dbStatusWaitingApproval
	}
	return string(s)
}

func fromDBStatus(s string) leave.Status {
	if s == dbStatusWaitingApproval || s == "" {
		return leave.StatusPending
	}
	return leave.Status(s)
}

// employeeRef builds the embedded employee from nullable join columns.
// full_name is split at the first space into first and last name.
func employeeRef(id, fullName, email, branch *string) *leave.EmployeeRef {
	if id == nil {
		return nil
	}
	first, last, _ := strings.Cut(strings.TrimSpace(deref(fullName)), " ")
	ref := &leave.EmployeeRef{
		ID:        *id,
		FirstName: first,
		LastName:  strings.TrimSpace(last),
		Email:     deref(email),
	}
	if branch != nil {
		ref.Department = &leave.Department{Name: *branch}
	}
	return ref
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
