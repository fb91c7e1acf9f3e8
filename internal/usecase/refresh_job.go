package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cyrusai/agent-console/internal/domain"
)

// RefreshJob re-fetches the session figures on a schedule while a session is
// live. A tick that overlaps a manual refresh is skipped, never queued.
type RefreshJob struct {
	sessions *SessionService
	timeout  time.Duration
}

func NewRefreshJob(sessions *SessionService, timeout time.Duration) *RefreshJob {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &RefreshJob{sessions: sessions, timeout: timeout}
}

func (j *RefreshJob) Name() string { return "session-refresh" }

func (j *RefreshJob) Run() error {
	if !j.sessions.Authenticated() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.sessions.Refresh(ctx)
	if errors.Is(err, domain.ErrOperationInFlight) || errors.Is(err, domain.ErrNotAuthenticated) {
		return nil
	}
	return err
}
