package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
)

const (
	DefaultTransitionNoticeTTL = 3 * time.Second
	DefaultCleanupNoticeTTL    = 5 * time.Second

	fetchFailedMessage   = "Failed to fetch leave records"
	updateFailedMessage  = "Failed to update leave status"
	cleanupFailedMessage = "Failed to clean up orphaned leave records"
)

type Options struct {
	TransitionNoticeTTL time.Duration
	CleanupNoticeTTL    time.Duration
	Clock               func() time.Time
}

var _ leave.LeaveReconciler = (*ReconcilerImpl)(nil)

// ReconcilerImpl keeps the console state of one admin session. Every list is
// a fresh read that replaces the previous state.
type ReconcilerImpl struct {
	leave.LeaveRepository
	board         *notice.Board
	transitionTTL time.Duration
	cleanupTTL    time.Duration
	now           func() time.Time

	mu       sync.Mutex
	filter   leave.ListFilter
	statuses map[string]leave.Status
	warning  *leave.IntegrityWarning
	last     leave.ConsoleState
}

func NewReconciler(repo leave.LeaveRepository, board *notice.Board, opts Options) *ReconcilerImpl {
	if opts.TransitionNoticeTTL <= 0 {
		opts.TransitionNoticeTTL = DefaultTransitionNoticeTTL
	}
	if opts.CleanupNoticeTTL <= 0 {
		opts.CleanupNoticeTTL = DefaultCleanupNoticeTTL
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if board == nil {
		board = notice.NewBoard(notice.WithClock(opts.Clock))
	}
	initial := leave.ListFilter{Status: leave.StatusFilterAll}
	return &ReconcilerImpl{
		LeaveRepository: repo,
		board:           board,
		transitionTTL:   opts.TransitionNoticeTTL,
		cleanupTTL:      opts.CleanupNoticeTTL,
		now:             opts.Clock,
		filter:          initial,
		statuses:        make(map[string]leave.Status),
		last:            leave.ConsoleState{Filter: initial, Leaves: []leave.LeaveRecord{}},
	}
}

// List implements leave.LeaveReconciler.
func (s *ReconcilerImpl) List(ctx context.Context, filter leave.ListFilter) leave.ConsoleState {
	if err := filter.Validate(); err != nil {
		return s.fail(filter, err.Error(), false)
	}

	records, err := s.LeaveRepository.ListLeaves(ctx, filter.Status.Status())
	if err != nil {
		slog.Error("List leaves failed", "status", filter.Status, "error", err)
		return s.fail(filter, serviceMessage(err, fetchFailedMessage), true)
	}

	valid, invalid := leave.Partition(records)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filter = filter
	s.statuses = make(map[string]leave.Status, len(records))
	for _, r := range records {
		s.statuses[r.ID] = r.Status
	}

	if len(invalid) > 0 {
		ids := make([]string, 0, len(invalid))
		for _, r := range invalid {
			ids = append(ids, r.ID)
		}
		slog.Warn("Leave records failed integrity check", "count", len(invalid), "ids", ids)
		s.warning = &leave.IntegrityWarning{Count: len(invalid), Records: invalid}
	} else {
		s.warning = nil
	}

	s.last = leave.ConsoleState{
		Filter:    filter,
		Leaves:    leave.Search(valid, filter.Search),
		Warning:   s.warning,
		Notice:    s.board.Current(),
		FetchedAt: s.now(),
	}
	return s.last
}

// TransitionStatus implements leave.LeaveReconciler.
//
// A record already in the requested status is a no-op; a record already
// decided the other way is rejected with ErrLeaveAlreadyProcessed. Records the
// session has not seen, or has seen as pending, go to the service, which has
// the final say.
func (s *ReconcilerImpl) TransitionStatus(ctx context.Context, id string, status leave.Status) (leave.ConsoleState, error) {
	req := leave.UpdateStatusRequest{ID: id, Status: status}
	if err := req.Validate(); err != nil {
		return s.State(), err
	}

	s.mu.Lock()
	current, known := s.statuses[id]
	s.mu.Unlock()

	if known && current == status {
		slog.Info("Leave status unchanged", "id", id, "status", status)
		return s.State(), nil
	}
	if known && current.IsTerminal() {
		return s.State(), fmt.Errorf("leave %s is %s: %w", id, current, leave.ErrLeaveAlreadyProcessed)
	}

	if err := s.LeaveRepository.UpdateStatus(ctx, id, status); err != nil {
		slog.Error("Update leave status failed", "id", id, "status", status, "error", err)
		return s.State(), &leave.MutationError{
			Op:      "update_status",
			ID:      id,
			Message: serviceMessage(err, updateFailedMessage),
			Err:     err,
		}
	}

	slog.Info("Leave status updated", "id", id, "status", status)
	s.board.Post(notice.KindSuccess, fmt.Sprintf("Leave request %s successfully", status), s.transitionTTL)

	return s.List(ctx, s.currentFilter()), nil
}

// CleanupOrphans implements leave.LeaveReconciler.
func (s *ReconcilerImpl) CleanupOrphans(ctx context.Context, isAdmin bool) (leave.CleanupResult, error) {
	if !isAdmin {
		return leave.CleanupResult{State: s.State()}, leave.ErrAdminPrivilegeRequired
	}

	deleted, err := s.LeaveRepository.CleanupOrphans(ctx)
	if err != nil {
		slog.Error("Cleanup orphaned leaves failed", "error", err)
		return leave.CleanupResult{State: s.State()}, &leave.MutationError{
			Op:      "cleanup",
			Message: serviceMessage(err, cleanupFailedMessage),
			Err:     err,
		}
	}

	s.mu.Lock()
	s.warning = nil
	s.last.Warning = nil
	s.mu.Unlock()

	slog.Info("Orphaned leaves removed", "deleted_count", deleted)
	s.board.Post(notice.KindSuccess, fmt.Sprintf("Removed %d orphaned leave records", deleted), s.cleanupTTL)

	return leave.CleanupResult{
		DeletedCount: deleted,
		State:        s.List(ctx, s.currentFilter()),
	}, nil
}

// State implements leave.LeaveReconciler.
func (s *ReconcilerImpl) State() leave.ConsoleState {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.last
	state.Warning = s.warning
	state.Notice = s.board.Current()
	return state
}

func (s *ReconcilerImpl) currentFilter() leave.ListFilter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// fail records a failed list: empty listing, warning left as it was. A
// rejected filter does not replace the session's current one.
func (s *ReconcilerImpl) fail(filter leave.ListFilter, message string, remember bool) leave.ConsoleState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if remember {
		s.filter = filter
	}
	s.last = leave.ConsoleState{
		Filter:  filter,
		Leaves:  []leave.LeaveRecord{},
		Warning: s.warning,
		Error:   message,
		Notice:  s.board.Current(),
	}
	return s.last
}

// serviceMessage prefers the message the data service put in its error payload.
func serviceMessage(err error, fallback string) string {
	var withMessage interface{ ServiceMessage() string }
	if errors.As(err, &withMessage) {
		if msg := withMessage.ServiceMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
