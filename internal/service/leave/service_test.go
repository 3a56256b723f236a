package leave_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
	leaveService "github.com/cmlabs-hris/hris-admin-console/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLeaveRepository keeps records in memory and lets a test override any call.
type fakeLeaveRepository struct {
	mu      sync.Mutex
	records []leave.LeaveRecord

	listFn    func(ctx context.Context, status *leave.Status) ([]leave.LeaveRecord, error)
	updateFn  func(ctx context.Context, id string, status leave.Status) error
	cleanupFn func(ctx context.Context) (int, error)

	listCalls    int
	updateCalls  int
	cleanupCalls int
	lastStatus   *leave.Status
}

func (f *fakeLeaveRepository) ListLeaves(ctx context.Context, status *leave.Status) ([]leave.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.lastStatus = status
	if f.listFn != nil {
		return f.listFn(ctx, status)
	}
	out := make([]leave.LeaveRecord, 0, len(f.records))
	for _, r := range f.records {
		if status == nil || r.Status == *status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepository) UpdateStatus(ctx context.Context, id string, status leave.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	if f.updateFn != nil {
		return f.updateFn(ctx, id, status)
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Status = status
			return nil
		}
	}
	return leave.ErrLeaveNotFound
}

func (f *fakeLeaveRepository) CleanupOrphans(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleanupCalls++
	if f.cleanupFn != nil {
		return f.cleanupFn(ctx)
	}
	kept := f.records[:0]
	deleted := 0
	for _, r := range f.records {
		if r.IsOrphaned() {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.records = kept
	return deleted, nil
}

type serviceError struct {
	msg string
}

func (e *serviceError) Error() string          { return "data service: " + e.msg }
func (e *serviceError) ServiceMessage() string { return e.msg }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func employee(first, last, email string) *leave.EmployeeRef {
	return &leave.EmployeeRef{FirstName: first, LastName: last, Email: email}
}

// fiveLeaves has four valid pending records and one orphan.
func fiveLeaves() []leave.LeaveRecord {
	return []leave.LeaveRecord{
		{ID: "l1", Employee: employee("John", "Doe", "john@example.com"), LeaveType: leave.TypeSick, Reason: "Flu", Status: leave.StatusPending},
		{ID: "l2", Employee: employee("Jane", "Roe", "jane@example.com"), LeaveType: leave.TypeCasual, Reason: "Errand", Status: leave.StatusPending},
		{ID: "l3", Employee: nil, LeaveType: leave.TypeEarned, Reason: "Trip", Status: leave.StatusPending},
		{ID: "l4", Employee: employee("Ali", "Khan", "ali@example.com"), LeaveType: leave.TypeEarned, Reason: "Vacation", Status: leave.StatusPending},
		{ID: "l5", Employee: employee("Mia", "Wong", "mia@example.com"), LeaveType: leave.TypeUnpaid, Reason: "Moving house", Status: leave.StatusPending},
	}
}

type reconcilerDeps struct {
	repo       *fakeLeaveRepository
	clock      *testClock
	board      *notice.Board
	reconciler *leaveService.ReconcilerImpl
}

func setupReconcilerTest(t *testing.T, records []leave.LeaveRecord) *reconcilerDeps {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	board := notice.NewBoard(notice.WithClock(clock.Now))
	repo := &fakeLeaveRepository{records: records}
	r := leaveService.NewReconciler(repo, board, leaveService.Options{Clock: clock.Now})

	return &reconcilerDeps{repo: repo, clock: clock, board: board, reconciler: r}
}

func ids(records []leave.LeaveRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestReconciler_ListPendingWithOrphanThenCleanup(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())

	state := deps.reconciler.List(ctx, leave.ListFilter{Status: leave.StatusFilterPending})

	require.NotNil(t, deps.repo.lastStatus)
	assert.Equal(t, leave.StatusPending, *deps.repo.lastStatus)
	assert.Empty(t, state.Error)
	assert.Equal(t, []string{"l1", "l2", "l4", "l5"}, ids(state.Leaves))
	require.NotNil(t, state.Warning)
	assert.Equal(t, 1, state.Warning.Count)
	assert.Equal(t, "l3", state.Warning.Records[0].ID)

	result, err := deps.reconciler.CleanupOrphans(ctx, true)

	require.NoError(t, err)
	assert.Equal(t, 1, result.DeletedCount)
	assert.Nil(t, result.State.Warning)
	assert.Len(t, result.State.Leaves, 4)
	require.NotNil(t, result.State.Notice)
	assert.Equal(t, "Removed 1 orphaned leave records", result.State.Notice.Message)
	assert.Nil(t, deps.reconciler.State().Warning)
}

func TestReconciler_ListAllOmitsStatus(t *testing.T) {
	deps := setupReconcilerTest(t, fiveLeaves())

	deps.reconciler.List(context.Background(), leave.ListFilter{Status: leave.StatusFilterAll})

	assert.Equal(t, 1, deps.repo.listCalls)
	assert.Nil(t, deps.repo.lastStatus)
}

func TestReconciler_ListSearchIsCaseInsensitive(t *testing.T) {
	deps := setupReconcilerTest(t, fiveLeaves())

	state := deps.reconciler.List(context.Background(), leave.ListFilter{Search: "DOE"})
	assert.Equal(t, []string{"l1"}, ids(state.Leaves))

	state = deps.reconciler.List(context.Background(), leave.ListFilter{Search: "earned"})
	assert.Equal(t, []string{"l4"}, ids(state.Leaves), "orphans never surface through search")

	state = deps.reconciler.List(context.Background(), leave.ListFilter{Search: "moving"})
	assert.Equal(t, []string{"l5"}, ids(state.Leaves))
}

func TestReconciler_ListFailureKeepsWarning(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())

	first := deps.reconciler.List(ctx, leave.ListFilter{})
	require.NotNil(t, first.Warning)

	deps.repo.listFn = func(ctx context.Context, status *leave.Status) ([]leave.LeaveRecord, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	state := deps.reconciler.List(ctx, leave.ListFilter{})

	assert.Equal(t, "Failed to fetch leave records", state.Error)
	assert.NotNil(t, state.Leaves)
	assert.Empty(t, state.Leaves)
	require.NotNil(t, state.Warning)
	assert.Equal(t, 1, state.Warning.Count)
}

func TestReconciler_ListFailureUsesServiceMessage(t *testing.T) {
	deps := setupReconcilerTest(t, nil)
	deps.repo.listFn = func(ctx context.Context, status *leave.Status) ([]leave.LeaveRecord, error) {
		return nil, &serviceError{msg: "Database unavailable"}
	}

	state := deps.reconciler.List(context.Background(), leave.ListFilter{})

	assert.Equal(t, "Database unavailable", state.Error)
}

func TestReconciler_SuccessfulFetchClearsWarning(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())

	require.NotNil(t, deps.reconciler.List(ctx, leave.ListFilter{}).Warning)

	deps.repo.records = deps.repo.records[:2]
	state := deps.reconciler.List(ctx, leave.ListFilter{})

	assert.Nil(t, state.Warning)
}

func TestReconciler_InvalidFilterSkipsFetch(t *testing.T) {
	deps := setupReconcilerTest(t, fiveLeaves())

	state := deps.reconciler.List(context.Background(), leave.ListFilter{Status: "cancelled"})

	assert.Equal(t, 0, deps.repo.listCalls)
	assert.Contains(t, state.Error, "status must be one of")
	assert.Empty(t, state.Leaves)
}

func TestReconciler_ApproveThenRelist(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())
	deps.reconciler.List(ctx, leave.ListFilter{Status: leave.StatusFilterAll})

	state, err := deps.reconciler.TransitionStatus(ctx, "l1", leave.StatusApproved)

	require.NoError(t, err)
	assert.Equal(t, 1, deps.repo.updateCalls)
	assert.Equal(t, 2, deps.repo.listCalls)
	require.Equal(t, "l1", state.Leaves[0].ID)
	assert.Equal(t, leave.StatusApproved, state.Leaves[0].Status)
	assert.False(t, state.Leaves[0].Actionable())
	assert.True(t, state.Leaves[1].Actionable())

	require.NotNil(t, state.Notice)
	assert.Equal(t, "Leave request approved successfully", state.Notice.Message)

	deps.clock.Advance(3 * time.Second)
	assert.Nil(t, deps.reconciler.State().Notice)
}

func TestReconciler_TransitionRelistsWithCurrentFilter(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())
	deps.reconciler.List(ctx, leave.ListFilter{Status: leave.StatusFilterPending})

	state, err := deps.reconciler.TransitionStatus(ctx, "l2", leave.StatusRejected)

	require.NoError(t, err)
	assert.Equal(t, leave.StatusFilterPending, state.Filter.Status)
	assert.Equal(t, []string{"l1", "l4", "l5"}, ids(state.Leaves))
}

func TestReconciler_TransitionFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())
	before := deps.reconciler.List(ctx, leave.ListFilter{})

	deps.repo.updateFn = func(ctx context.Context, id string, status leave.Status) error {
		return &serviceError{msg: "Leave request not found"}
	}
	state, err := deps.reconciler.TransitionStatus(ctx, "l1", leave.StatusApproved)

	var mutationErr *leave.MutationError
	require.ErrorAs(t, err, &mutationErr)
	assert.Equal(t, "Leave request not found", mutationErr.Message)
	assert.Equal(t, 1, deps.repo.listCalls, "no re-list after a failed update")
	assert.Equal(t, ids(before.Leaves), ids(state.Leaves))
	assert.Equal(t, leave.StatusPending, state.Leaves[0].Status)
	assert.Nil(t, state.Notice)
}

func TestReconciler_TransitionGuard(t *testing.T) {
	ctx := context.Background()
	records := fiveLeaves()
	records[0].Status = leave.StatusApproved
	deps := setupReconcilerTest(t, records)
	deps.reconciler.List(ctx, leave.ListFilter{})

	_, err := deps.reconciler.TransitionStatus(ctx, "l1", leave.StatusApproved)
	assert.NoError(t, err, "same status is a no-op")

	_, err = deps.reconciler.TransitionStatus(ctx, "l1", leave.StatusRejected)
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyProcessed)

	_, err = deps.reconciler.TransitionStatus(ctx, "l2", leave.StatusPending)
	assert.Error(t, err)

	assert.Equal(t, 0, deps.repo.updateCalls)
}

func TestReconciler_TransitionUnknownRecordGoesToService(t *testing.T) {
	deps := setupReconcilerTest(t, fiveLeaves())

	_, err := deps.reconciler.TransitionStatus(context.Background(), "l4", leave.StatusRejected)

	require.NoError(t, err)
	assert.Equal(t, 1, deps.repo.updateCalls)
}

func TestReconciler_CleanupRequiresAdmin(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())
	deps.reconciler.List(ctx, leave.ListFilter{})

	result, err := deps.reconciler.CleanupOrphans(ctx, false)

	assert.ErrorIs(t, err, leave.ErrAdminPrivilegeRequired)
	assert.Equal(t, 0, deps.repo.cleanupCalls)
	require.NotNil(t, result.State.Warning)
	assert.Equal(t, 1, result.State.Warning.Count)
}

func TestReconciler_CleanupFailureKeepsWarning(t *testing.T) {
	ctx := context.Background()
	deps := setupReconcilerTest(t, fiveLeaves())
	deps.reconciler.List(ctx, leave.ListFilter{})

	deps.repo.cleanupFn = func(ctx context.Context) (int, error) {
		return 0, errors.New("500 internal server error")
	}
	result, err := deps.reconciler.CleanupOrphans(ctx, true)

	var mutationErr *leave.MutationError
	require.ErrorAs(t, err, &mutationErr)
	assert.Equal(t, "Failed to clean up orphaned leave records", mutationErr.Message)
	require.NotNil(t, result.State.Warning)
	assert.Equal(t, 1, result.State.Warning.Count)
	assert.Equal(t, 1, deps.repo.listCalls)
}

func TestReconciler_CleanupKeepsValidCardinality(t *testing.T) {
	ctx := context.Background()
	records := append(fiveLeaves(), leave.LeaveRecord{ID: "l6", LeaveType: leave.TypeOther, Reason: "x"})
	deps := setupReconcilerTest(t, records)

	before := deps.reconciler.List(ctx, leave.ListFilter{})
	require.Equal(t, 2, before.Warning.Count)

	result, err := deps.reconciler.CleanupOrphans(ctx, true)

	require.NoError(t, err)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Len(t, result.State.Leaves, len(before.Leaves))
	assert.Nil(t, result.State.Warning)

	deps.clock.Advance(5 * time.Second)
	assert.Nil(t, deps.reconciler.State().Notice)
}
