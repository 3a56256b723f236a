package dataservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/report"
)

var _ report.ReportRepository = (*Client)(nil)

func (c *Client) GetAttendanceReport(ctx context.Context, month, year int) ([]report.AttendanceRecord, error) {
	return getReport[report.AttendanceRecord](ctx, c, "/reports/attendance", periodQuery(month, year))
}

func (c *Client) GetLeaveReport(ctx context.Context, month, year int) ([]report.LeaveSummaryRecord, error) {
	return getReport[report.LeaveSummaryRecord](ctx, c, "/reports/leave", periodQuery(month, year))
}

func (c *Client) GetDepartmentReport(ctx context.Context) ([]report.DepartmentRecord, error) {
	return getReport[report.DepartmentRecord](ctx, c, "/reports/department", nil)
}

func periodQuery(month, year int) url.Values {
	return url.Values{
		"month": {strconv.Itoa(month)},
		"year":  {strconv.Itoa(year)},
	}
}

func getReport[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	env, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}

	records := []T{}
	if len(env.Report) == 0 || string(env.Report) == "null" {
		return records, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(env.Report, &elements); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	skipped := 0
	for _, element := range elements {
		var record T
		if err := json.Unmarshal(element, &record); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	if skipped > 0 {
		slog.Warn("Skipped undecodable report rows", "path", path, "skipped", skipped)
	}
	return records, nil
}
