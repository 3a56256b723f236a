package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-admin-console/internal/pkg/notice"
)

type NoticeJobs struct {
	board    *notice.Board
	interval time.Duration
}

func NewNoticeJobs(board *notice.Board, interval time.Duration) *NoticeJobs {
	return &NoticeJobs{board: board, interval: interval}
}

func (j *NoticeJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_expired_notices", j.interval, j.SweepExpiredNotices)
}

// SweepExpiredNotices drops the current notice once it has expired so that
// board listeners (the SSE stream) learn it is gone.
func (j *NoticeJobs) SweepExpiredNotices(ctx context.Context) error {
	if j.board.Sweep() {
		slog.Debug("Cron: expired notice cleared")
	}
	return nil
}
