package notice

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice is a transient message that stops being current once ExpiresAt has passed.
type Notice struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the notice is no longer current at now.
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}

// Listener is called after the current notice changes. n is nil when the
// board was cleared.
type Listener func(n *Notice)

// Board holds at most one current notice. Expiry is explicit state: readers
// never see an expired notice, and Sweep drops it so listeners are told.
type Board struct {
	mu        sync.Mutex
	current   *Notice
	now       func() time.Time
	listeners []Listener
}

type Option func(*Board)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

func NewBoard(opts ...Option) *Board {
	b := &Board{now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// OnChange registers a listener for posts, clears and expiries.
func (b *Board) OnChange(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Post replaces the current notice with a new one living for ttl.
func (b *Board) Post(kind Kind, message string, ttl time.Duration) Notice {
	now := b.now()
	n := Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	b.mu.Lock()
	b.current = &n
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, &n)
	return n
}

// Current returns the live notice, or nil when there is none or it expired.
func (b *Board) Current() *Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil || b.current.Expired(b.now()) {
		return nil
	}
	n := *b.current
	return &n
}

// Sweep drops an expired notice. It reports whether anything was dropped.
func (b *Board) Sweep() bool {
	b.mu.Lock()
	if b.current == nil || !b.current.Expired(b.now()) {
		b.mu.Unlock()
		return false
	}
	b.current = nil
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	notify(listeners, nil)
	return true
}

// Clear drops the current notice regardless of expiry.
func (b *Board) Clear() {
	b.mu.Lock()
	had := b.current != nil
	b.current = nil
	listeners := b.snapshotListeners()
	b.mu.Unlock()

	if had {
		notify(listeners, nil)
	}
}

func (b *Board) snapshotListeners() []Listener {
	out := make([]Listener, len(b.listeners))
	copy(out, b.listeners)
	return out
}

func notify(listeners []Listener, n *Notice) {
	for _, l := range listeners {
		l(n)
	}
}
