package leave

import (
	"encoding/json"
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether no further transitions are offered for the status.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

type StatusFilter string

const (
	StatusFilterAll      StatusFilter = "all"
	StatusFilterPending  StatusFilter = StatusFilter(StatusPending)
	StatusFilterApproved StatusFilter = StatusFilter(StatusApproved)
	StatusFilterRejected StatusFilter = StatusFilter(StatusRejected)
)

// Status returns the server-side status narrowing for the filter, nil for "all".
func (f StatusFilter) Status() *Status {
	if f == "" || f == StatusFilterAll {
		return nil
	}
	s := Status(f)
	return &s
}

// Known leave types. The remote service treats the type as an open string.
const (
	TypeSick   = "sick"
	TypeCasual = "casual"
	TypeEarned = "earned"
	TypeUnpaid = "unpaid"
	TypeOther  = "other"
)

type Department struct {
	Name string `json:"name"`
}

// EmployeeRef is the employee as embedded in a leave or report record.
type EmployeeRef struct {
	ID         string      `json:"_id,omitempty"`
	FirstName  string      `json:"firstName"`
	LastName   string      `json:"lastName"`
	Email      string      `json:"email"`
	Department *Department `json:"department,omitempty"`
}

// FullName joins first and last name.
func (e EmployeeRef) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Date accepts both RFC3339 timestamps and plain YYYY-MM-DD dates.
// Unparseable values decode to the zero Date instead of failing the whole collection.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	d.Time = time.Time{}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// LeaveRecord as returned by the data service. A nil Employee means the
// employee reference could not be resolved (orphaned record).
type LeaveRecord struct {
	ID        string       `json:"_id"`
	Employee  *EmployeeRef `json:"employee"`
	LeaveType string       `json:"leaveType"`
	StartDate Date         `json:"startDate"`
	EndDate   Date         `json:"endDate"`
	Reason    string       `json:"reason"`
	Status    Status       `json:"status"`

	// Malformed is set when the record could not be decoded as a whole. Only
	// the id and employee reference are recovered from it.
	Malformed bool `json:"-"`
}

func (r *LeaveRecord) UnmarshalJSON(b []byte) error {
	type alias LeaveRecord
	*r = LeaveRecord{}
	aux := struct {
		*alias
		Employee json.RawMessage `json:"employee"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	r.Employee = DecodeEmployee(aux.Employee)
	r.Normalize()
	return nil
}

// DecodeRecords decodes a collection one element at a time so that a single
// corrupt element does not fail the others. Only a payload that is not an
// array is an error.
func DecodeRecords(raw json.RawMessage) ([]LeaveRecord, error) {
	records := []LeaveRecord{}
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return records, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, err
	}
	for _, element := range elements {
		var r LeaveRecord
		if err := json.Unmarshal(element, &r); err != nil {
			r = malformedRecord(element)
		}
		records = append(records, r)
	}
	return records, nil
}

func malformedRecord(raw json.RawMessage) LeaveRecord {
	r := LeaveRecord{Status: StatusPending, Malformed: true}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return r
	}
	r.ID = decodeID(fields["_id"])
	r.Employee = DecodeEmployee(fields["employee"])
	return r
}

// decodeID accepts an id written as a string or a number.
func decodeID(raw json.RawMessage) string {
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// DecodeEmployee resolves an embedded employee. Anything other than an
// object (null, a bare id, malformed data) is an unresolved reference.
func DecodeEmployee(raw json.RawMessage) *EmployeeRef {
	trimmed := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var e EmployeeRef
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil
	}
	return &e
}

// Normalize applies defaults for fields the service may omit.
func (r *LeaveRecord) Normalize() {
	if r.Status == "" {
		r.Status = StatusPending
	}
}

// IsValid reports whether the record can be shown to the user: it must carry
// an employee with a first name, a leave type and a reason.
func (r LeaveRecord) IsValid() bool {
	return len(r.Issues()) == 0
}

// Issues lists the missing relations or fields that make a record invalid.
func (r LeaveRecord) Issues() []string {
	var issues []string
	if r.Malformed {
		issues = append(issues, "record malformed")
		if r.Employee == nil {
			issues = append(issues, "employee reference missing")
		}
		return issues
	}
	switch {
	case r.Employee == nil:
		issues = append(issues, "employee reference missing")
	case strings.TrimSpace(r.Employee.FirstName) == "":
		issues = append(issues, "employee first name missing")
	}
	if strings.TrimSpace(r.LeaveType) == "" {
		issues = append(issues, "leave type missing")
	}
	if strings.TrimSpace(r.Reason) == "" {
		issues = append(issues, "reason missing")
	}
	return issues
}

// IsOrphaned reports whether the employee reference is unresolved.
func (r LeaveRecord) IsOrphaned() bool {
	return r.Employee == nil
}

// Actionable reports whether approve/reject controls apply to the record.
func (r LeaveRecord) Actionable() bool {
	return !r.Status.IsTerminal()
}

// SearchText is the lower-cased haystack used by free-text search.
func (r LeaveRecord) SearchText() string {
	parts := make([]string, 0, 5)
	if r.Employee != nil {
		parts = append(parts, r.Employee.FirstName, r.Employee.LastName, r.Employee.Email)
	}
	parts = append(parts, r.LeaveType, r.Reason)
	return strings.ToLower(strings.Join(parts, " "))
}

// Matches reports a case-insensitive substring match of search against SearchText.
// An empty search matches everything.
func (r LeaveRecord) Matches(search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	return strings.Contains(r.SearchText(), search)
}

// Partition splits records into valid and invalid subsets, keeping the input order.
func Partition(records []LeaveRecord) (valid, invalid []LeaveRecord) {
	valid = make([]LeaveRecord, 0, len(records))
	for _, r := range records {
		if r.IsValid() {
			valid = append(valid, r)
		} else {
			invalid = append(invalid, r)
		}
	}
	return valid, invalid
}

// Search returns the records matching search, keeping the input order.
func Search(records []LeaveRecord, search string) []LeaveRecord {
	out := make([]LeaveRecord, 0, len(records))
	for _, r := range records {
		if r.Matches(search) {
			out = append(out, r)
		}
	}
	return out
}
