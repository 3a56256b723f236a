package leave

import (
	"strconv"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/validator"
)

type ListFilter struct {
	Status StatusFilter `json:"status"`
	Search string       `json:"search"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status == "" {
		f.Status = StatusFilterAll
	}

	allowed := []string{
		string(StatusFilterAll),
		string(StatusFilterPending),
		string(StatusFilterApproved),
		string(StatusFilterRejected),
	}
	if !validator.IsInSlice(string(f.Status), allowed) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of all, pending, approved, rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateStatusRequest struct {
	ID     string `json:"-"`
	Status Status `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Status != StatusApproved && r.Status != StatusRejected {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be approved or rejected",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID            string  `json:"id"`
	EmployeeName  string  `json:"employee_name"`
	EmployeeEmail string  `json:"employee_email"`
	Department    *string `json:"department"`
	LeaveType     string  `json:"leave_type"`
	StartDate     *string `json:"start_date"`
	EndDate       *string `json:"end_date"`
	Reason        string  `json:"reason"`
	Status        string  `json:"status"`
	Actionable    bool    `json:"actionable"`
}

type InvalidLeaveResponse struct {
	ID     string   `json:"id"`
	Issues []string `json:"issues"`
}

type IntegrityWarningResponse struct {
	Count   int                    `json:"count"`
	Message string                 `json:"message"`
	Records []InvalidLeaveResponse `json:"records"`
}

type ConsoleStateResponse struct {
	Filter    ListFilter                `json:"filter"`
	Leaves    []LeaveResponse           `json:"leaves"`
	Warning   *IntegrityWarningResponse `json:"warning"`
	Error     string                    `json:"error,omitempty"`
	Notice    *notice.Notice            `json:"notice"`
	FetchedAt *time.Time                `json:"fetched_at,omitempty"`
}

type CleanupResponse struct {
	DeletedCount int                  `json:"deleted_count"`
	State        ConsoleStateResponse `json:"state"`
}

func NewLeaveResponse(r LeaveRecord) LeaveResponse {
	resp := LeaveResponse{
		ID:         r.ID,
		LeaveType:  r.LeaveType,
		Reason:     r.Reason,
		Status:     string(r.Status),
		Actionable: r.Actionable(),
		StartDate:  formatDate(r.StartDate),
		EndDate:    formatDate(r.EndDate),
	}
	if r.Employee != nil {
		resp.EmployeeName = r.Employee.FullName()
		resp.EmployeeEmail = r.Employee.Email
		if r.Employee.Department != nil && r.Employee.Department.Name != "" {
			name := r.Employee.Department.Name
			resp.Department = &name
		}
	}
	return resp
}

func NewConsoleStateResponse(s ConsoleState) ConsoleStateResponse {
	resp := ConsoleStateResponse{
		Filter: s.Filter,
		Leaves: make([]LeaveResponse, 0, len(s.Leaves)),
		Error:  s.Error,
		Notice: s.Notice,
	}
	for _, r := range s.Leaves {
		resp.Leaves = append(resp.Leaves, NewLeaveResponse(r))
	}
	if !s.FetchedAt.IsZero() {
		fetchedAt := s.FetchedAt
		resp.FetchedAt = &fetchedAt
	}
	if s.Warning != nil {
		w := &IntegrityWarningResponse{
			Count:   s.Warning.Count,
			Message: WarningMessage(s.Warning.Count),
			Records: make([]InvalidLeaveResponse, 0, len(s.Warning.Records)),
		}
		for _, r := range s.Warning.Records {
			w.Records = append(w.Records, InvalidLeaveResponse{ID: r.ID, Issues: r.Issues()})
		}
		resp.Warning = w
	}
	return resp
}

// WarningMessage is the user-facing text for an integrity warning.
func WarningMessage(count int) string {
	if count == 1 {
		return "1 leave record is missing required data and is hidden from the list"
	}
	return strconv.Itoa(count) + " leave records are missing required data and are hidden from the list"
}

func formatDate(d Date) *string {
	if d.IsZero() {
		return nil
	}
	s := d.Format("2006-01-02")
	return &s
}
