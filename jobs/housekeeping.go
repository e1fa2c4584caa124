package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

// AutoPunchOutStore is stamped on sessions the job closes; promoters who
// forget to punch out see it the next morning.
const AutoPunchOutStore = "Auto punch-out (11 PM)"

// AttendanceCloser force-closes open attendance sessions.
type AttendanceCloser interface {
	ForceCloseOpenSessions(ctx context.Context, closedAt time.Time, store string) (int64, error)
}

// TokenSweeper removes expired refresh tokens.
type TokenSweeper interface {
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
}

// HousekeepingJob runs the nightly cleanup: close forgotten sessions, sweep
// dead refresh tokens. The two steps are independent transactions so one
// failing does not roll back the other.
type HousekeepingJob struct {
	attendance AttendanceCloser
	tokens     TokenSweeper
	logger     *slog.Logger
	now        func() time.Time
}

// NewHousekeepingJob constructs the job.
func NewHousekeepingJob(attendance AttendanceCloser, tokens TokenSweeper, logger *slog.Logger) *HousekeepingJob {
	return &HousekeepingJob{
		attendance: attendance,
		tokens:     tokens,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle processes TaskHousekeeping tasks.
func (j *HousekeepingJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload HousekeepingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	now := j.now()

	closed, err := j.attendance.ForceCloseOpenSessions(ctx, now, AutoPunchOutStore)
	if err != nil {
		j.logger.Error("force close sessions", slog.Any("error", err))
		return err
	}

	swept, err := j.tokens.DeleteExpiredRefreshTokens(ctx, now)
	if err != nil {
		j.logger.Error("sweep refresh tokens", slog.Any("error", err))
		return err
	}

	j.logger.Info("housekeeping complete",
		slog.String("reason", payload.Reason),
		slog.Int64("sessions_closed", closed),
		slog.Int64("tokens_swept", swept))
	return nil
}
