package dataservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
)

var _ leave.LeaveRepository = (*Client)(nil)

// ListLeaves implements leave.LeaveRepository.
func (c *Client) ListLeaves(ctx context.Context, status *leave.Status) ([]leave.LeaveRecord, error) {
	query := url.Values{}
	if status != nil {
		query.Set("status", string(*status))
	}

	env, err := c.do(ctx, http.MethodGet, "/leaves", query, nil)
	if err != nil {
		return nil, err
	}

	records, err := leave.DecodeRecords(env.Leaves)
	if err != nil {
		return nil, fmt.Errorf("failed to decode leaves: %w", err)
	}
	return records, nil
}

// UpdateStatus implements leave.LeaveRepository.
func (c *Client) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	body := map[string]leave.Status{"status": status}
	_, err := c.do(ctx, http.MethodPut, "/leaves/"+url.PathEscape(id)+"/status", nil, body)

	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: %w", leave.ErrLeaveNotFound, err)
	}
	return err
}

// CleanupOrphans implements leave.LeaveRepository.
func (c *Client) CleanupOrphans(ctx context.Context) (int, error) {
	env, err := c.do(ctx, http.MethodDelete, "/leaves/cleanup/orphaned", nil, nil)
	if err != nil {
		return 0, err
	}
	return env.DeletedCount, nil
}
