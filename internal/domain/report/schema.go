package report

// schema is one variant of the closed set of report kinds: its column header
// and the projection of its records into rows.
type schema struct {
	header  []string
	project func(Dataset) [][]string
}

var schemas = map[Kind]schema{
	KindAttendance: {
		header: []string{"Employee Name", "Email", "Department", "Present", "Absent", "Late", "Total", "Attendance Rate"},
		project: func(d Dataset) [][]string {
			rows := make([][]string, 0, len(d.Attendance))
			for _, r := range d.Attendance {
				rows = append(rows, []string{
					EmployeeName(r.Employee),
					EmployeeEmail(r.Employee),
					EmployeeDepartment(r.Employee),
					CountText(r.Present),
					CountText(r.Absent),
					CountText(r.Late),
					CountText(r.Total),
					AttendanceRate(r.Present, r.Total),
				})
			}
			return rows
		},
	},
	KindLeave: {
		header: []string{"Employee Name", "Email", "Department", "Approved", "Pending", "Rejected", "Total"},
		project: func(d Dataset) [][]string {
			rows := make([][]string, 0, len(d.Leave))
			for _, r := range d.Leave {
				rows = append(rows, []string{
					EmployeeName(r.Employee),
					EmployeeEmail(r.Employee),
					EmployeeDepartment(r.Employee),
					CountText(r.Approved),
					CountText(r.Pending),
					CountText(r.Rejected),
					CountText(r.Total),
				})
			}
			return rows
		},
	},
	KindDepartment: {
		header: []string{"Department", "Total Employees", "Positions"},
		project: func(d Dataset) [][]string {
			rows := make([][]string, 0, len(d.Departments))
			for _, r := range d.Departments {
				rows = append(rows, []string{
					Text(r.Department),
					CountText(r.TotalEmployees),
					Positions(r.Positions),
				})
			}
			return rows
		},
	},
}

// Header returns a copy of the column header for kind.
func Header(kind Kind) []string {
	s, ok := schemas[kind]
	if !ok {
		return nil
	}
	out := make([]string, len(s.header))
	copy(out, s.header)
	return out
}

// Table projects the dataset through its kind's schema.
func (d Dataset) Table() (Table, error) {
	s, ok := schemas[d.Kind]
	if !ok {
		return Table{}, ErrUnknownKind
	}
	return Table{Header: Header(d.Kind), Rows: s.project(d)}, nil
}
