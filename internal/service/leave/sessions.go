package leave

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/leave"
	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
)

const DefaultSessionIdleTTL = 30 * time.Minute

var _ leave.ReconcilerSessions = (*Sessions)(nil)

type session struct {
	reconciler *ReconcilerImpl
	lastUsed   time.Time
}

// Sessions hands every admin their own reconciler so that the filter, known
// statuses and integrity warning of one admin never leak into another's.
// The repository and notice board are shared.
type Sessions struct {
	repo    leave.LeaveRepository
	board   *notice.Board
	opts    Options
	idleTTL time.Duration
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessions(repo leave.LeaveRepository, board *notice.Board, opts Options, idleTTL time.Duration) *Sessions {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if board == nil {
		board = notice.NewBoard(notice.WithClock(opts.Clock))
	}
	if idleTTL <= 0 {
		idleTTL = DefaultSessionIdleTTL
	}
	return &Sessions{
		repo:     repo,
		board:    board,
		opts:     opts,
		idleTTL:  idleTTL,
		now:      opts.Clock,
		sessions: make(map[string]*session),
	}
}

// For implements leave.ReconcilerSessions.
func (s *Sessions) For(userID string) leave.LeaveReconciler {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		sess = &session{reconciler: NewReconciler(s.repo, s.board, s.opts)}
		s.sessions[userID] = sess
		slog.Debug("Leave session opened", "user_id", userID)
	}
	sess.lastUsed = s.now()
	return sess.reconciler
}

// EvictIdle drops sessions unused for longer than the idle TTL and returns
// how many were dropped.
func (s *Sessions) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.idleTTL)
	evicted := 0
	for userID, sess := range s.sessions {
		if sess.lastUsed.Before(cutoff) {
			delete(s.sessions, userID)
			evicted++
		}
	}
	return evicted
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
