package leave_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
	leaveService "github.com/cmlabs-hris/hris-admin-console/internal/service/leave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionsTest(t *testing.T) (*leaveService.Sessions, *fakeLeaveRepository, *testClock, *notice.Board) {
	t.Helper()
	clock := &testClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	board := notice.NewBoard(notice.WithClock(clock.Now))
	repo := &fakeLeaveRepository{records: fiveLeaves()}
	sessions := leaveService.NewSessions(repo, board, leaveService.Options{Clock: clock.Now}, 10*time.Minute)
	return sessions, repo, clock, board
}

func TestSessions_InterleavedUsersKeepTheirOwnFilter(t *testing.T) {
	sessions, repo, _, _ := setupSessionsTest(t)
	repo.records[3].Status = leave.StatusApproved
	ctx := context.Background()

	pending := leave.ListFilter{Status: leave.StatusFilterPending}
	approved := leave.ListFilter{Status: leave.StatusFilterApproved, Search: "zzz"}

	sessions.For("alice").List(ctx, pending)
	sessions.For("bob").List(ctx, approved)
	state, err := sessions.For("alice").TransitionStatus(ctx, "l1", leave.StatusApproved)

	require.NoError(t, err)
	assert.Equal(t, pending, state.Filter)
	assert.Equal(t, []string{"l2", "l5"}, ids(state.Leaves))
	require.NotNil(t, state.Warning)
	assert.Equal(t, 1, state.Warning.Count)

	bob := sessions.For("bob").State()
	assert.Equal(t, approved, bob.Filter)
	assert.Empty(t, bob.Leaves)
	assert.Nil(t, bob.Warning)
}

func TestSessions_KnownStatusesArePerUser(t *testing.T) {
	sessions, repo, _, _ := setupSessionsTest(t)
	ctx := context.Background()

	sessions.For("alice").List(ctx, leave.ListFilter{Status: leave.StatusFilterAll})
	_, err := sessions.For("alice").TransitionStatus(ctx, "l1", leave.StatusApproved)
	require.NoError(t, err)

	// bob never listed, so his transition goes to the repository.
	_, err = sessions.For("bob").TransitionStatus(ctx, "l1", leave.StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.updateCalls)
}

func TestSessions_NoticesAreShared(t *testing.T) {
	sessions, _, _, board := setupSessionsTest(t)
	ctx := context.Background()

	_, err := sessions.For("alice").TransitionStatus(ctx, "l1", leave.StatusApproved)
	require.NoError(t, err)

	require.NotNil(t, board.Current())
	require.NotNil(t, sessions.For("bob").State().Notice)
	assert.Equal(t, "Leave request approved successfully", sessions.For("bob").State().Notice.Message)
}

func TestSessions_EvictIdle(t *testing.T) {
	sessions, _, clock, _ := setupSessionsTest(t)

	alice := sessions.For("alice")
	sessions.For("bob")
	assert.Equal(t, 2, sessions.Len())

	clock.Advance(6 * time.Minute)
	sessions.For("bob")
	clock.Advance(6 * time.Minute)

	assert.Equal(t, 1, sessions.EvictIdle())
	assert.Equal(t, 1, sessions.Len())
	assert.NotSame(t, alice, sessions.For("alice"))
	assert.Equal(t, 0, sessions.EvictIdle())
}
