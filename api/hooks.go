package api

import (
	"context"
	"log/slog"

	"github.com/huvtsp/alumni/internal/embed"
	"github.com/huvtsp/alumni/internal/jobs"
	"github.com/huvtsp/alumni/pkg/repository"
)

// Invalidator drops derived search state after the directory changes.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// writeHooks runs the side effects shared by every write endpoint.
type writeHooks struct {
	search Invalidator
	jobs   repository.JobQueue
}

func (h *writeHooks) changed(ctx context.Context) {
	if h == nil || h.search == nil {
		return
	}
	h.search.Invalidate(ctx)
}

// memberChanged queues an embedding refresh when a job queue is configured.
// Enqueue failures are logged; the write itself already succeeded.
func (h *writeHooks) memberChanged(ctx context.Context, memberID int64) {
	h.changed(ctx)
	if h == nil || h.jobs == nil {
		return
	}
	if _, err := jobs.Enqueue(ctx, h.jobs, jobs.TypeMemberEmbed, embed.Payload{MemberID: memberID}, 100, 3); err != nil {
		logger.Warn("failed to enqueue member.embed job", slog.Int64("member_id", memberID), slog.String("error", err.Error()))
	}
}
