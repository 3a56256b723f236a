package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
)

// IntegrityWarning enumerates records hidden from the listing because they
// are missing required relations. It is a warning, not an error.
type IntegrityWarning struct {
	Count   int
	Records []LeaveRecord
}

// ConsoleState is what the leave screen renders after an action.
type ConsoleState struct {
	Filter    ListFilter
	Leaves    []LeaveRecord
	Warning   *IntegrityWarning
	Error     string
	Notice    *notice.Notice
	FetchedAt time.Time
}

type CleanupResult struct {
	DeletedCount int
	State        ConsoleState
}

type LeaveReconciler interface {
	// List fetches, partitions and searches leave records. Fetch failures are
	// reported in ConsoleState.Error; List never fails outright.
	List(ctx context.Context, filter ListFilter) ConsoleState
	// TransitionStatus approves or rejects a leave and re-lists on success.
	TransitionStatus(ctx context.Context, id string, status Status) (ConsoleState, error)
	// CleanupOrphans bulk-deletes orphaned records. isAdmin is the caller's capability flag.
	CleanupOrphans(ctx context.Context, isAdmin bool) (CleanupResult, error)
	// State returns the last rendered state with the notice refreshed.
	State() ConsoleState
}

// ReconcilerSessions resolves the reconciler holding one admin's console state.
type ReconcilerSessions interface {
	For(userID string) LeaveReconciler
}
