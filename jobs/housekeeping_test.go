package jobs

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"
)

type stubCloser struct {
	closed int64
	store  string
	err    error
}

func (s *stubCloser) ForceCloseOpenSessions(ctx context.Context, closedAt time.Time, store string) (int64, error) {
	s.store = store
	return s.closed, s.err
}

type stubSweeper struct {
	swept  int64
	called bool
}

func (s *stubSweeper) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	s.called = true
	return s.swept, nil
}

func TestHousekeepingClosesSessionsAndSweepsTokens(t *testing.T) {
	closer := &stubCloser{closed: 3}
	sweeper := &stubSweeper{swept: 7}
	job := NewHousekeepingJob(closer, sweeper, slog.New(slog.DiscardHandler))

	task, err := NewHousekeepingTask(HousekeepingPayload{Reason: "nightly"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Equal(t, AutoPunchOutStore, closer.store)
	require.True(t, sweeper.called)
}

func TestHousekeepingPropagatesCloseFailure(t *testing.T) {
	closer := &stubCloser{err: errors.New("db down")}
	sweeper := &stubSweeper{}
	job := NewHousekeepingJob(closer, sweeper, slog.New(slog.DiscardHandler))

	task, err := NewHousekeepingTask(HousekeepingPayload{})
	require.NoError(t, err)

	require.Error(t, job.Handle(context.Background(), task))
	require.False(t, sweeper.called)
}

func TestHousekeepingSkipsBadPayload(t *testing.T) {
	job := NewHousekeepingJob(&stubCloser{}, &stubSweeper{}, slog.New(slog.DiscardHandler))
	bad := asynq.NewTask(TaskHousekeeping, []byte("{not json"))
	require.ErrorIs(t, job.Handle(context.Background(), bad), asynq.SkipRetry)
}
