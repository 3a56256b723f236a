package leave

import (
	"context"
)

// LeaveRepository is the remote data service as seen by the reconciler.
type LeaveRepository interface {
	// ListLeaves returns every leave record, narrowed by status when status is non-nil.
	ListLeaves(ctx context.Context, status *Status) ([]LeaveRecord, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
	// CleanupOrphans deletes records whose employee reference cannot be resolved
	// and returns how many were removed.
	CleanupOrphans(ctx context.Context) (int, error)
}
