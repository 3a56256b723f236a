package report

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
)

// Kind selects both the remote query and the output columns.
type Kind string

const (
	KindAttendance Kind = "attendance"
	KindLeave      Kind = "leave"
	KindDepartment Kind = "department"
)

// Kinds lists every report kind in export order.
var Kinds = []Kind{KindAttendance, KindLeave, KindDepartment}

// Periodic reports whether the kind is scoped to a month and year.
func (k Kind) Periodic() bool {
	return k == KindAttendance || k == KindLeave
}

func (k Kind) Valid() bool {
	_, ok := schemas[k]
	return ok
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

type EmployeeRef = leave.EmployeeRef

// Counts are pointers: the data service omits them freely, and an absent
// count is rendered as zero rather than guessed at decode time.

type AttendanceRecord struct {
	Employee *EmployeeRef `json:"employee"`
	Present  *int         `json:"present"`
	Absent   *int         `json:"absent"`
	Late     *int         `json:"late"`
	Total    *int         `json:"total"`
}

func (r *AttendanceRecord) UnmarshalJSON(b []byte) error {
	var aux struct {
		Employee json.RawMessage `json:"employee"`
		Present  json.RawMessage `json:"present"`
		Absent   json.RawMessage `json:"absent"`
		Late     json.RawMessage `json:"late"`
		Total    json.RawMessage `json:"total"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = AttendanceRecord{
		Employee: leave.DecodeEmployee(aux.Employee),
		Present:  decodeCount(aux.Present),
		Absent:   decodeCount(aux.Absent),
		Late:     decodeCount(aux.Late),
		Total:    decodeCount(aux.Total),
	}
	return nil
}

type LeaveSummaryRecord struct {
	Employee *EmployeeRef `json:"employee"`
	Approved *int         `json:"approved"`
	Pending  *int         `json:"pending"`
	Rejected *int         `json:"rejected"`
	Total    *int         `json:"total"`
}

func (r *LeaveSummaryRecord) UnmarshalJSON(b []byte) error {
	var aux struct {
		Employee json.RawMessage `json:"employee"`
		Approved json.RawMessage `json:"approved"`
		Pending  json.RawMessage `json:"pending"`
		Rejected json.RawMessage `json:"rejected"`
		Total    json.RawMessage `json:"total"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = LeaveSummaryRecord{
		Employee: leave.DecodeEmployee(aux.Employee),
		Approved: decodeCount(aux.Approved),
		Pending:  decodeCount(aux.Pending),
		Rejected: decodeCount(aux.Rejected),
		Total:    decodeCount(aux.Total),
	}
	return nil
}

type DepartmentRecord struct {
	Department     *string         `json:"department"`
	TotalEmployees *int            `json:"totalEmployees"`
	Positions      map[string]*int `json:"positions"`
}

// UnmarshalJSON accepts the department either as a plain name or as an
// object carrying one. Position entries that are not counts are absent.
func (r *DepartmentRecord) UnmarshalJSON(b []byte) error {
	var aux struct {
		Department     json.RawMessage `json:"department"`
		TotalEmployees json.RawMessage `json:"totalEmployees"`
		Positions      json.RawMessage `json:"positions"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = DepartmentRecord{
		Department:     decodeDepartment(aux.Department),
		TotalEmployees: decodeCount(aux.TotalEmployees),
	}

	var positions map[string]json.RawMessage
	if err := json.Unmarshal(aux.Positions, &positions); err == nil && positions != nil {
		r.Positions = make(map[string]*int, len(positions))
		for title, raw := range positions {
			r.Positions[title] = decodeCount(raw)
		}
	}
	return nil
}

// decodeCount reads a whole number. Anything else (null, text, fractions)
// is an absent count.
func decodeCount(raw json.RawMessage) *int {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || f != math.Trunc(f) {
		return nil
	}
	n := int(f)
	return &n
}

func decodeDepartment(raw json.RawMessage) *string {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case strings.HasPrefix(trimmed, `"`):
		var name string
		if err := json.Unmarshal(raw, &name); err != nil {
			return nil
		}
		return &name
	case strings.HasPrefix(trimmed, "{"):
		var d leave.Department
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil
		}
		return &d.Name
	}
	return nil
}

// Dataset is the record collection of exactly one kind. Only the slice
// matching Kind is populated.
type Dataset struct {
	Kind        Kind
	Attendance  []AttendanceRecord
	Leave       []LeaveSummaryRecord
	Departments []DepartmentRecord
}

func (d Dataset) Len() int {
	switch d.Kind {
	case KindAttendance:
		return len(d.Attendance)
	case KindLeave:
		return len(d.Leave)
	case KindDepartment:
		return len(d.Departments)
	}
	return 0
}

// Table is a header row plus one rendered row per record.
type Table struct {
	Header []string
	Rows   [][]string
}
