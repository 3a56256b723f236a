package cron

import (
	"context"
	"log/slog"
	"time"
)

// IdleEvicter drops state that has not been used recently.
type IdleEvicter interface {
	EvictIdle() int
}

type SessionJobs struct {
	sessions IdleEvicter
	interval time.Duration
}

func NewSessionJobs(sessions IdleEvicter, interval time.Duration) *SessionJobs {
	return &SessionJobs{sessions: sessions, interval: interval}
}

func (j *SessionJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("evict_idle_sessions", j.interval, j.EvictIdleSessions)
}

func (j *SessionJobs) EvictIdleSessions(ctx context.Context) error {
	if n := j.sessions.EvictIdle(); n > 0 {
		slog.Info("Cron: idle leave sessions evicted", "count", n)
	}
	return nil
}
