package notice

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestBoard_PostAndExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	board := NewBoard(WithClock(clock.Now))

	posted := board.Post(KindSuccess, "Leave approved", 3*time.Second)
	assert.NotEmpty(t, posted.ID)
	assert.Equal(t, clock.Now().Add(3*time.Second), posted.ExpiresAt)

	current := board.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Leave approved", current.Message)

	clock.Advance(2999 * time.Millisecond)
	assert.NotNil(t, board.Current())

	clock.Advance(time.Millisecond)
	assert.Nil(t, board.Current())
}

func TestBoard_SweepNotifiesOnlyOnExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	board := NewBoard(WithClock(clock.Now))

	var events []*Notice
	board.OnChange(func(n *Notice) {
		events = append(events, n)
	})

	board.Post(KindSuccess, "Removed 1 orphaned leave records", 5*time.Second)
	assert.False(t, board.Sweep())

	clock.Advance(5 * time.Second)
	assert.True(t, board.Sweep())
	assert.False(t, board.Sweep())

	require.Len(t, events, 2)
	assert.Equal(t, "Removed 1 orphaned leave records", events[0].Message)
	assert.Nil(t, events[1])
}

func TestBoard_PostReplacesCurrent(t *testing.T) {
	board := NewBoard()

	board.Post(KindSuccess, "first", time.Minute)
	board.Post(KindError, "second", time.Minute)

	current := board.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)
	assert.Equal(t, KindError, current.Kind)

	board.Clear()
	assert.Nil(t, board.Current())
}
