package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable replaces any absent employee or department reference.
const NotAvailable = "N/A"

var hundred = decimal.NewFromInt(100)

// Count treats an absent count as zero.
func Count(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func CountText(n *int) string {
	return strconv.Itoa(Count(n))
}

// Text renders an optional reference, falling back to NotAvailable when it is
// absent or blank.
func Text(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return orNotAvailable(*s)
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

func EmployeeName(e *EmployeeRef) string {
	if e == nil {
		return NotAvailable
	}
	return orNotAvailable(e.FullName())
}

func EmployeeEmail(e *EmployeeRef) string {
	if e == nil {
		return NotAvailable
	}
	return orNotAvailable(e.Email)
}

func EmployeeDepartment(e *EmployeeRef) string {
	if e == nil || e.Department == nil {
		return NotAvailable
	}
	return orNotAvailable(e.Department.Name)
}

// AttendanceRate renders present/total as a percentage with exactly two
// decimals. A zero or absent total yields "0.00%".
func AttendanceRate(present, total *int) string {
	t := Count(total)
	if t == 0 {
		return "0.00%"
	}
	rate := decimal.NewFromInt(int64(Count(present))).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(t)))
	return rate.StringFixed(2) + "%"
}

// Positions renders the title-to-count mapping as "Title: n" pairs sorted by
// title and joined with "; ".
func Positions(positions map[string]*int) string {
	if len(positions) == 0 {
		return NotAvailable
	}
	titles := make([]string, 0, len(positions))
	for title := range positions {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	parts := make([]string, 0, len(titles))
	for _, title := range titles {
		parts = append(parts, fmt.Sprintf("%s: %d", orNotAvailable(title), Count(positions[title])))
	}
	return strings.Join(parts, "; ")
}
