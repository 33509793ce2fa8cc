package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/huvtsp/alumni/pkg/models"
)

// Job types handled by the server.
const (
	TypeMemberEmbed = "member.embed"
)

// Job statuses as stored in the jobs table.
const (
	StatusQueued  = "queued"
	StatusRetry   = "retry"
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// Handler is the function that processes a job
type Handler func(ctx context.Context, j *models.BackgroundJob) error

// Permanent marks err as not worth retrying; the job goes straight to the
// dead letter table.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// BackoffDuration returns exponential backoff duration for attempt n
func BackoffDuration(attempt int) time.Duration {
	if attempt <= 0 {
		return time.Second
	}
	// 2^attempt seconds, capped
	max := 5 * time.Minute
	if attempt >= 9 {
		return max
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > max {
		return max
	}
	return d
}
